package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return NewSchema(
		Descriptor{Key: "rda-cache-limit", Type: TypeSizeBytes, HasMin: true, Min: 0},
		Descriptor{Key: "rda-request-size", Type: TypeSizeBytes},
		Descriptor{Key: "cache-timeout", Type: TypeTime, HasMin: true, Min: 0, HasMax: true, Max: 60},
		Descriptor{Key: "parallel-readdir", Type: TypeBool},
		Descriptor{Key: "readdir-optimize", Aliases: []string{"rda-readdir-optimize"}, Deprecated: true, Type: TypeBool},
		Descriptor{Key: "transport-type", Type: TypeStringEnum, Enum: []string{"tcp", "rdma", "tcp,rdma"}},
	)
}

func TestValidateBoolCanonicalizes(t *testing.T) {
	out, errs := Validate(testSchema(), map[string]string{"parallel-readdir": "on"})
	require.Empty(t, errs)
	require.Equal(t, "true", out["parallel-readdir"])
}

func TestValidateSizeBytesWithSuffix(t *testing.T) {
	out, errs := Validate(testSchema(), map[string]string{"rda-cache-limit": "10MB"})
	require.Empty(t, errs)
	require.Equal(t, "10MB", out["rda-cache-limit"])
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	_, errs := Validate(testSchema(), map[string]string{"cache-timeout": "120s"})
	require.Len(t, errs, 1)
}

func TestValidateUnknownKeySuggests(t *testing.T) {
	_, errs := Validate(testSchema(), map[string]string{"parallel-readdirr": "on"})
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "did you mean")
	require.Contains(t, errs[0].Error(), "parallel-readdir")
}

func TestValidateRewritesDeprecatedAlias(t *testing.T) {
	out, errs := Validate(testSchema(), map[string]string{"rda-readdir-optimize": "yes"})
	require.Empty(t, errs)
	_, hasOld := out["rda-readdir-optimize"]
	require.False(t, hasOld)
	require.Equal(t, "true", out["readdir-optimize"])
}

func TestValidateEnumAcceptsListedValues(t *testing.T) {
	_, errs := Validate(testSchema(), map[string]string{"transport-type": "rdma"})
	require.Empty(t, errs)

	_, errs = Validate(testSchema(), map[string]string{"transport-type": "quic"})
	require.Len(t, errs, 1)
}
