package modules

import (
	"time"

	"github.com/charmbracelet/log"
)

// Record tracks one registered module.
type Record[S any] struct {
	Name string
	Path string

	// modTime of the source when the current version was staged. Zero when
	// nothing was loaded or the source vanished.
	modTime time.Time
	version int
	lib     Library[S]
	entry   Entry[S]
	staged  string

	static      bool
	missing     bool
	failures    int
	quarantined bool
	// reported symbols for the current version, so a missing update does not
	// log every frame.
	reported map[string]bool

	log *log.Logger
}

// Version returns the version of the loaded library, 0 when none was loaded.
func (r *Record[S]) Version() int {
	return r.version
}

func (r *Record[S]) Loaded() bool {
	return r.lib != nil
}

func (r *Record[S]) Quarantined() bool {
	return r.quarantined
}

// Staged returns the path of the currently loaded copy.
func (r *Record[S]) Staged() string {
	return r.staged
}

// ModuleInfo is a read-only view of a record.
type ModuleInfo struct {
	Name        string
	Path        string
	Version     int
	Loaded      bool
	Static      bool
	Quarantined bool
	Failures    int
}

func (r *Record[S]) info() ModuleInfo {
	return ModuleInfo{
		Name:        r.Name,
		Path:        r.Path,
		Version:     r.version,
		Loaded:      r.lib != nil,
		Static:      r.static,
		Quarantined: r.quarantined,
		Failures:    r.failures,
	}
}
