// Command gluster is the CLI client for a glusterd management daemon:
// spec.md §6's CLI surface ("volume set", "volume reset", "volume
// stop", "volume status", "volume profile start|stop|info") expressed
// as a cobra command tree, grounded on gcsfuse's cmd/root.go
// (package-level *cobra.Command vars, one RunE per leaf).
//
// This binary runs its own in-process Daemon against --workdir rather
// than dialing a remote one — the single-node demo pool spec.md §6
// describes. A real deployment would instead have each subcommand's
// RunE build a transport.Transport that dials a remote glusterd and
// hand that to glusterd.New in place of transport.NewInProcess.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gluster/glusterfs-sub025/glusterd"
	"github.com/gluster/glusterfs-sub025/ops"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/peer"
	"github.com/gluster/glusterfs-sub025/store"
	"github.com/gluster/glusterfs-sub025/transport"
)

var (
	workdir string
	force   bool
)

func newDaemon() (*glusterd.Daemon, error) {
	st := store.New(workdir)
	if err := st.Bootstrap(); err != nil {
		return nil, err
	}
	return glusterd.New("localhost", peer.NewTable(), st, transport.NewInProcess()), nil
}

func runOp(op opsm.OpKind, opCtx map[string]string) error {
	d, err := newDaemon()
	if err != nil {
		return err
	}
	result, dict := d.RunOp(op, opCtx)
	if !result.OK {
		return fmt.Errorf("%s", result.ErrText)
	}
	for _, k := range []string{"volname", "status", "brick_count", "enabled"} {
		if v, ok := dict[k]; ok {
			fmt.Printf("%s: %s\n", k, v)
		}
	}
	for k, v := range dict {
		if strings.HasSuffix(k, ".count") {
			fmt.Printf("%s: %s\n", k, v)
		}
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "gluster",
	Short: "Command-line client for a glusterd management daemon",
}

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Volume management commands",
}

var setCmd = &cobra.Command{
	Use:   "set <volname> <key> <value>",
	Short: "Set a volume option",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(opsm.OpSetVolume, map[string]string{
			"volname": args[0],
			"count":   "1",
			"key0":    args[1],
			"value0":  args[2],
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <volname> [key]",
	Short: "Reset a volume option to its default, or every option if key is omitted",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opCtx := map[string]string{"volname": args[0], "key": "all"}
		if len(args) == 2 {
			opCtx["key"] = args[1]
		}
		return runOp(opsm.OpResetVolume, opCtx)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <volname>",
	Short: "Stop a volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opCtx := map[string]string{"volname": args[0]}
		if force {
			opCtx["force"] = "1"
		}
		return runOp(opsm.OpStopVolume, opCtx)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <volname>",
	Short: "Show a volume's current status and brick list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(opsm.OpStatusVolume, map[string]string{"volname": args[0]})
	},
}

var profileSubOps = map[string]ops.StatsOp{
	"start": ops.StatsOpStart,
	"stop":  ops.StatsOpStop,
	"info":  ops.StatsOpInfo,
	"top":   ops.StatsOpTop,
}

var profileCmd = &cobra.Command{
	Use:   "profile <volname> <start|stop|info>",
	Short: "Control per-brick FOP latency profiling",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, ok := profileSubOps[args[1]]
		if !ok {
			return fmt.Errorf("gluster: unknown profile sub-command %q", args[1])
		}
		return runOp(opsm.OpProfileVolume, map[string]string{
			"volname": args[0],
			"op":      strconv.Itoa(int(op)),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workdir, "workdir", "/var/lib/glusterd", "management daemon's persisted volume directory")
	stopCmd.Flags().BoolVar(&force, "force", false, "stop even if the volume does not look started")

	volumeCmd.AddCommand(setCmd, resetCmd, stopCmd, statusCmd, profileCmd)
	rootCmd.AddCommand(volumeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
