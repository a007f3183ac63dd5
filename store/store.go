package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/gluster/glusterfs-sub025/errkind"
)

// Store is the on-disk volume registry rooted at workdir, mirroring
// <workdir>/vols/<volname>/{info,options,bricks/<host>:<path>}, with
// every "/" in a brick path replaced by "-" in its file name.
// Reads populate an in-memory cache; every mutation rewrites its
// volume's files whole, per spec.md §6 ("rewritten whole on version
// bump; the core reads it only at bootstrap and on reconfigure
// events").
type Store struct {
	workdir string

	mu      sync.RWMutex
	volumes map[string]*VolumeInfo
}

// New returns a Store rooted at workdir. It does not read anything
// from disk; call Bootstrap to populate the cache.
func New(workdir string) *Store {
	return &Store{workdir: workdir, volumes: map[string]*VolumeInfo{}}
}

func (s *Store) volDir(name string) string {
	return filepath.Join(s.workdir, "vols", name)
}

// Bootstrap reads every volume directory under <workdir>/vols into the
// in-memory cache, the one point at which this core reads the store
// outside of a reconfigure event.
func (s *Store) Bootstrap() error {
	entries, err := os.ReadDir(filepath.Join(s.workdir, "vols"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "store: bootstrap")
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := s.Load(e.Name()); err != nil {
			return errors.Wrapf(err, "store: bootstrap volume %s", e.Name())
		}
	}
	return nil
}

// Load reads volname's info/options/bricks files from disk into the
// cache and returns the decoded record.
func (s *Store) Load(volname string) (*VolumeInfo, error) {
	dir := s.volDir(volname)

	info, err := ini.Load(filepath.Join(dir, "info"))
	if err != nil {
		return nil, errkind.Wrap(errkind.NotFound, err, "store: load info for "+volname)
	}
	sec := info.Section("")

	id, err := uuid.Parse(sec.Key("uuid").String())
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidArgument, err, "store: bad uuid for "+volname)
	}
	version, _ := strconv.Atoi(sec.Key("version").String())
	replicaCount, _ := strconv.Atoi(sec.Key("replica_count").String())
	if replicaCount == 0 {
		replicaCount = 1
	}

	v := &VolumeInfo{
		Name:         volname,
		ID:           id,
		Version:      version,
		Status:       parseVolumeStatus(sec.Key("status").String()),
		Type:         sec.Key("type").String(),
		ReplicaCount: replicaCount,
		Options:      map[string]string{},
	}

	if opts, err := ini.Load(filepath.Join(dir, "options")); err == nil {
		for _, k := range opts.Section("").Keys() {
			v.Options[k.Name()] = k.Value()
		}
	}

	brickEntries, err := os.ReadDir(filepath.Join(dir, "bricks"))
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "store: read bricks dir")
	}
	for _, be := range brickEntries {
		bf, err := ini.Load(filepath.Join(dir, "bricks", be.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "store: load brick file %s", be.Name())
		}
		bsec := bf.Section("")
		buuid, _ := uuid.Parse(bsec.Key("uuid").String())
		online, _ := bsec.Key("online").Bool()
		v.Bricks = append(v.Bricks, BrickInfo{
			Host:   bsec.Key("host").String(),
			Path:   bsec.Key("path").String(),
			UUID:   buuid,
			Online: online,
		})
	}
	sort.Slice(v.Bricks, func(i, j int) bool { return v.Bricks[i].FileName() < v.Bricks[j].FileName() })

	s.mu.Lock()
	s.volumes[volname] = v
	s.mu.Unlock()
	return v, nil
}

// brickDiskName is the on-disk leaf name for one brick file. It only
// needs to be a stable, collision-free identifier — the brick's actual
// Host/Path are stored as fields inside the file, not decoded from the
// name — so path separators are flattened rather than preserved
// (a brick path always contains "/", which a literal "host:path" leaf
// name would otherwise turn into bogus intermediate directories).
func brickDiskName(b BrickInfo) string {
	return b.Host + ":" + strings.ReplaceAll(b.Path, "/", "-")
}

// Get returns the cached record for volname, without touching disk.
func (s *Store) Get(volname string) (*VolumeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.volumes[volname]
	return v, ok
}

// List returns every cached volume name, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.volumes))
	for name := range s.volumes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save bumps v's version and rewrites its info/options/bricks files
// whole, then updates the cache. Callers (ops.CommitPerform
// implementations) are expected to pass a Clone they've already
// mutated to the desired post-commit shape.
func (s *Store) Save(v *VolumeInfo) error {
	v.Version++
	dir := s.volDir(v.Name)
	if err := os.MkdirAll(filepath.Join(dir, "bricks"), 0o755); err != nil {
		return errors.Wrap(err, "store: mkdir")
	}

	info := ini.Empty()
	sec := info.Section("")
	mustSet(sec, "uuid", v.ID.String())
	mustSet(sec, "version", strconv.Itoa(v.Version))
	mustSet(sec, "status", v.Status.String())
	mustSet(sec, "type", v.Type)
	mustSet(sec, "replica_count", strconv.Itoa(v.ReplicaCount))
	if err := info.SaveTo(filepath.Join(dir, "info")); err != nil {
		return errors.Wrap(err, "store: save info")
	}

	opts := ini.Empty()
	optSec := opts.Section("")
	for k, val := range v.Options {
		mustSet(optSec, k, val)
	}
	if err := opts.SaveTo(filepath.Join(dir, "options")); err != nil {
		return errors.Wrap(err, "store: save options")
	}

	keep := map[string]bool{}
	for _, b := range v.Bricks {
		name := brickDiskName(b)
		keep[name] = true
		bf := ini.Empty()
		bsec := bf.Section("")
		mustSet(bsec, "host", b.Host)
		mustSet(bsec, "path", b.Path)
		mustSet(bsec, "uuid", b.UUID.String())
		mustSet(bsec, "online", strconv.FormatBool(b.Online))
		if err := bf.SaveTo(filepath.Join(dir, "bricks", name)); err != nil {
			return errors.Wrapf(err, "store: save brick %s", name)
		}
	}
	stale, _ := os.ReadDir(filepath.Join(dir, "bricks"))
	for _, e := range stale {
		if !keep[e.Name()] {
			_ = os.Remove(filepath.Join(dir, "bricks", e.Name()))
		}
	}

	s.mu.Lock()
	s.volumes[v.Name] = v
	s.mu.Unlock()
	return nil
}

// Delete removes volname's directory and drops it from the cache.
func (s *Store) Delete(volname string) error {
	s.mu.Lock()
	delete(s.volumes, volname)
	s.mu.Unlock()
	if err := os.RemoveAll(s.volDir(volname)); err != nil {
		return errors.Wrap(err, "store: delete")
	}
	return nil
}

func mustSet(sec *ini.Section, key, value string) {
	if _, err := sec.NewKey(key, value); err != nil {
		panic(fmt.Sprintf("store: invalid ini key %q: %v", key, err))
	}
}
