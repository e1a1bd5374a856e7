package gvas

import (
	"fmt"
	"math"

	"github.com/signadot/gvas-format/ir"
)

const (
	magic = "GVAS"

	// customVersionGUIDs is the only custom version format written by
	// engines that produce GVAS files.
	customVersionGUIDs = 3

	// ue5LargeWorldCoordinates is the UE5 package version from which
	// vectors, rotators and quaternions are stored as doubles.
	ue5LargeWorldCoordinates = 1004
)

func (d *decoder) header() (*ir.Node, error) {
	m, err := d.r.take(4)
	if err != nil {
		return nil, err
	}
	if string(m) != magic {
		return nil, fmt.Errorf("%w: bad magic %q, not a GVAS file", ErrDecode, m)
	}
	h := ir.NewObject()
	saveVersion, err := d.r.i32()
	if err != nil {
		return nil, err
	}
	h.Append("save_game_version", ir.FromInt(int64(saveVersion)))
	pkgVersion, err := d.r.i32()
	if err != nil {
		return nil, err
	}
	h.Append("package_file_version", ir.FromInt(int64(pkgVersion)))
	if saveVersion >= 3 {
		ue5, err := d.r.i32()
		if err != nil {
			return nil, err
		}
		h.Append("package_file_version_ue5", ir.FromInt(int64(ue5)))
		d.lwc = ue5 >= ue5LargeWorldCoordinates
	}
	ev, err := d.engineVersion()
	if err != nil {
		return nil, err
	}
	h.Append("engine_version", ev)

	format, err := d.r.i32()
	if err != nil {
		return nil, err
	}
	if format != customVersionGUIDs {
		return nil, fmt.Errorf("%w: custom version format %d", ErrUnsupported, format)
	}
	h.Append("custom_version_format", ir.FromInt(int64(format)))
	n, err := d.r.u32()
	if err != nil {
		return nil, err
	}
	cvs := ir.NewArray()
	for i := uint32(0); i < n; i++ {
		g, err := d.r.guid()
		if err != nil {
			return nil, err
		}
		v, err := d.r.i32()
		if err != nil {
			return nil, err
		}
		cvs.Push(ir.NewObject().
			Append("guid", ir.FromString(g)).
			Append("version", ir.FromInt(int64(v))))
	}
	h.Append("custom_versions", cvs)

	class, err := d.r.name()
	if err != nil {
		return nil, err
	}
	h.Append("save_game_class_name", ir.FromString(class))
	return h, nil
}

func (d *decoder) engineVersion() (*ir.Node, error) {
	ev := ir.NewObject()
	for _, k := range []string{"major", "minor", "patch"} {
		v, err := d.r.u16()
		if err != nil {
			return nil, err
		}
		ev.Append(k, ir.FromInt(int64(v)))
	}
	cl, err := d.r.u32()
	if err != nil {
		return nil, err
	}
	ev.Append("change_list", ir.FromInt(int64(cl)))
	branch, null, err := d.r.fstring()
	if err != nil {
		return nil, err
	}
	if !null {
		ev.Append("branch", ir.FromString(branch))
	}
	return ev, nil
}

func (e *encoder) header(w *writer, h *ir.Node) error {
	w.WriteString(magic)
	saveVersion, err := intField(h, "save_game_version", math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	w.i32(int32(saveVersion))
	pkgVersion, err := intField(h, "package_file_version", math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	w.i32(int32(pkgVersion))
	if saveVersion >= 3 {
		ue5, err := intField(h, "package_file_version_ue5", math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		w.i32(int32(ue5))
		e.lwc = ue5 >= ue5LargeWorldCoordinates
	}

	ev, err := field(h, "engine_version")
	if err != nil {
		return err
	}
	for _, k := range []string{"major", "minor", "patch"} {
		v, err := intField(ev, k, 0, math.MaxUint16)
		if err != nil {
			return err
		}
		w.u16(uint16(v))
	}
	cl, err := intField(ev, "change_list", 0, math.MaxUint32)
	if err != nil {
		return err
	}
	w.u32(uint32(cl))
	branch, ok, err := optStringField(ev, "branch")
	if err != nil {
		return err
	}
	if ok {
		w.fstring(branch)
	} else {
		w.nullString()
	}

	format, err := intField(h, "custom_version_format", math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	if format != customVersionGUIDs {
		return fmt.Errorf("%w: custom version format %d is not supported", ErrEncode, format)
	}
	w.i32(int32(format))
	cvNode, err := field(h, "custom_versions")
	if err != nil {
		return err
	}
	cvs, err := asArray(cvNode)
	if err != nil {
		return err
	}
	w.u32(uint32(len(cvs)))
	for _, cv := range cvs {
		gs, err := stringField(cv, "guid")
		if err != nil {
			return err
		}
		g, err := parseGUID(gs)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSchema, cv.Path(), err)
		}
		v, err := intField(cv, "version", math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		w.guid(g)
		w.i32(int32(v))
	}

	class, err := stringField(h, "save_game_class_name")
	if err != nil {
		return err
	}
	w.fstring(class)
	return nil
}
