// Package options persists the player facing toggles as a small checksummed
// binary record.
package options

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/anima-shell/engine/core"
)

const (
	DefaultFile = "options.bin"
	Version     = uint8(1)
	recordSize  = 4 + 1 + 2 + 4
)

var magic = [4]byte{'A', 'S', 'O', 'P'}

var (
	ErrBadMagic    = errors.New("options: bad magic")
	ErrBadVersion  = errors.New("options: unsupported version")
	ErrBadChecksum = errors.New("options: checksum mismatch")
	ErrUnknownFlag = errors.New("options: unknown flag")
)

type Flag uint16

const (
	InvertX Flag = 1 << iota
	InvertY
	Vibration
	Music
	Voice
	SFX
	DrawCockpit
	DrawBackdrop
	DrawEngineFlares
	AimAssist
	DrawFPS
	Colorblind
	FlipUI
	ShowUI
	DrawCollisionShapes
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{InvertX, "invert_x"},
	{InvertY, "invert_y"},
	{Vibration, "vibration"},
	{Music, "music"},
	{Voice, "voice"},
	{SFX, "sfx"},
	{DrawCockpit, "draw_cockpit"},
	{DrawBackdrop, "draw_backdrop"},
	{DrawEngineFlares, "draw_engine_flares"},
	{AimAssist, "aim_assist"},
	{DrawFPS, "draw_fps"},
	{Colorblind, "colorblind"},
	{FlipUI, "flip_ui"},
	{ShowUI, "show_ui"},
	{DrawCollisionShapes, "draw_collision_shapes"},
}

func (f Flag) String() string {
	for _, n := range flagNames {
		if n.flag == f {
			return n.name
		}
	}
	return fmt.Sprintf("flag(%#04x)", uint16(f))
}

// ParseFlag accepts the snake case name of a flag, with dashes or
// underscores.
func ParseFlag(name string) (Flag, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, n := range flagNames {
		if n.name == name {
			return n.flag, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
}

type Options struct {
	bits Flag
}

func Default() *Options {
	return &Options{bits: Vibration | Music | Voice | SFX | DrawCockpit | DrawBackdrop | DrawEngineFlares | AimAssist | ShowUI}
}

func (o *Options) Has(f Flag) bool {
	return o.bits&f != 0
}

func (o *Options) Set(f Flag, on bool) {
	if on {
		o.bits |= f
	} else {
		o.bits &^= f
	}
}

func (o *Options) Toggle(f Flag) {
	o.bits ^= f
}

func (o *Options) Bits() uint16 {
	return uint16(o.bits)
}

// Each calls fn for every known flag in bit order.
func (o *Options) Each(fn func(f Flag, on bool)) {
	for _, n := range flagNames {
		fn(n.flag, o.Has(n.flag))
	}
}

// MarshalBinary encodes magic, version, the little endian bitfield and a
// CRC-32 over the preceding bytes.
func (o *Options) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, recordSize)
	buf = append(buf, magic[:]...)
	buf = append(buf, Version)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(o.bits))
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	return buf, nil
}

func (o *Options) UnmarshalBinary(data []byte) error {
	if len(data) < recordSize {
		return fmt.Errorf("options: short record (%d bytes): %w", len(data), io.ErrUnexpectedEOF)
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return ErrBadMagic
	}
	if data[4] != Version {
		return fmt.Errorf("%w: %d", ErrBadVersion, data[4])
	}
	body := data[:recordSize-4]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(data[recordSize-4:]) {
		return ErrBadChecksum
	}
	o.bits = Flag(binary.LittleEndian.Uint16(data[5:7]))
	return nil
}

// Load reads path. A missing or corrupt record yields the defaults; only the
// corruption is reported as an error so callers can log it.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}
	o := &Options{}
	if err := o.UnmarshalBinary(data); err != nil {
		core.LogWarn("options file %s is corrupt, using defaults: %s", path, err)
		return Default(), err
	}
	return o, nil
}

// Save writes the record through a temporary file so a crash never leaves a
// half written file behind.
func (o *Options) Save(path string) error {
	data, err := o.MarshalBinary()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
