package command

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
)

// remoteTTL is how long a /xremote or /meters registration stays live
// without a refresh (spec.md §4.4).
const remoteTTL = 10 * time.Second

// defaultMeterBlobSize is the placeholder blob size for /meters/1
// (spec.md §4.4).
const defaultMeterBlobSize = 296

func addSpecialCommands(t Table) {
	t.addSpecial("/info", handleInfo)
	t.addSpecial("/xinfo", handleXInfo)
	t.addSpecial("/status", handleStatus)
	t.addSpecial("/node", handleNode)
	t.addSpecial("/xremote", handleXRemote)
	t.addSpecial("/meters", handleMeters)
	t.addSpecial("/copy", handleCopy)
	t.addSpecial("/save", handleSave)
	t.addSpecial("/load", handleLoad)
	t.addSpecial("/delete", handleDelete)
	t.addSpecial("/-snap/save", handleSnapSave)
	t.addSpecial("/-snap/load", handleSnapLoad)
	t.addSpecial("/-snap/delete", handleSnapDelete)
}

func handleInfo(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	return []Reply{{Message: osc.New(m.Address,
		osc.Str(ctx.Info.FirmwareVersion),
		osc.Str(ctx.Info.DeviceIP),
		osc.Str(ctx.State.Preferences.Name),
		osc.Str(ctx.Info.ProtocolVersion),
	)}}
}

func handleXInfo(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	return []Reply{{Message: osc.New(m.Address,
		osc.Str(ctx.Info.DeviceIP),
		osc.Str(ctx.State.Preferences.Name),
		osc.Str(ctx.Info.ProtocolVersion),
	)}}
}

func handleStatus(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	return []Reply{{Message: osc.New(m.Address,
		osc.Str("active"),
		osc.Str(ctx.Info.DeviceIP),
		osc.Str(ctx.State.Preferences.Name),
	)}}
}

// handleNode replies with a whitespace-joined dump of every parameter
// leaf whose address falls under the requested subtree path
// (spec.md §4.3).
func handleNode(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	if len(m.Args) == 0 || m.Args[0].Kind != osc.ArgString {
		return nil
	}
	path := m.Args[0].S
	table := ctx.tableHook
	if table == nil {
		return nil
	}

	var addrs []string
	for addr, entry := range table {
		if entry.Param == nil {
			continue
		}
		if addr == path || strings.HasPrefix(addr, path+"/") {
			addrs = append(addrs, addr)
		}
	}
	sort.Strings(addrs)

	var b strings.Builder
	for i, addr := range addrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		entry := table[addr]
		args := entry.Param.Get(ctx.State)
		b.WriteString(addr)
		for _, a := range args {
			b.WriteByte('=')
			switch a.Kind {
			case osc.ArgInt:
				b.WriteString(strconv.FormatInt(int64(a.I), 10))
			case osc.ArgFloat:
				b.WriteString(strconv.FormatFloat(float64(a.F), 'g', -1, 32))
			case osc.ArgString:
				b.WriteString(a.S)
			case osc.ArgBlob:
				b.WriteString("[blob]")
			}
		}
	}

	return []Reply{{Message: osc.New(m.Address, osc.Str(b.String()))}}
}

func handleXRemote(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ctx.Subs.RegisterRemote(origin, now)
	return nil
}

func handleMeters(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	if len(m.Args) == 0 || m.Args[0].Kind != osc.ArgString {
		return nil
	}
	streamPath := m.Args[0].S

	var channel, opts, rateDiv int32 = 0, 0, 1
	if len(m.Args) > 1 && m.Args[1].Kind == osc.ArgInt {
		channel = m.Args[1].I
	}
	if len(m.Args) > 2 && m.Args[2].Kind == osc.ArgInt {
		opts = m.Args[2].I
	}
	if len(m.Args) > 3 && m.Args[3].Kind == osc.ArgInt {
		rateDiv = m.Args[3].I
	}

	ctx.Subs.RegisterMeter(origin, streamPath, channel, opts, rateDiv, now)
	return nil
}

// copyMask selects which field groups /copy transfers, one bit per group.
type copyMask int32

const (
	MaskConfig copyMask = 1 << iota
	MaskPreamp
	MaskGate
	MaskDyn
	MaskEQ
	MaskMix
)

func handleCopy(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	if len(m.Args) == 4 &&
		m.Args[0].Kind == osc.ArgString &&
		m.Args[1].Kind == osc.ArgInt &&
		m.Args[2].Kind == osc.ArgInt &&
		m.Args[3].Kind == osc.ArgInt {

		family := m.Args[0].S
		from := int(m.Args[1].I)
		to := int(m.Args[2].I)
		mask := copyMask(m.Args[3].I)
		ok = copyStrip(ctx.State, family, from, to, mask)
	}

	result := int32(0)
	if ok {
		result = 1
	}
	lib := ""
	if len(m.Args) > 0 {
		lib = m.Args[0].S
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(lib), osc.Int(result))}}
}

// resolveCopyFamily maps /copy's <lib> argument onto copyStrip's address-family
// vocabulary. Ground truth drives /copy with library-style names
// (state.LibChan etc.), not bare address families, so libchan/libfx/librout
// are aliased onto the family whose field-group shape they share.
func resolveCopyFamily(lib string) string {
	switch lib {
	case state.LibChan:
		return "ch"
	case state.LibFX:
		return "bus"
	case state.LibRout:
		return "mtx"
	default:
		return lib
	}
}

// copyStrip copies the masked field groups from index `from` to index `to`
// within the named family, conservatively skipping field groups the
// family doesn't declare (spec.md §9 open question resolution).
func copyStrip(s *state.State, family string, from, to int, mask copyMask) bool {
	switch resolveCopyFamily(family) {
	case "ch":
		if !inRange(from, len(s.Channels)) || !inRange(to, len(s.Channels)) {
			return false
		}
		src, dst := &s.Channels[from], &s.Channels[to]
		if mask&MaskConfig != 0 {
			dst.Config = src.Config
		}
		if mask&MaskPreamp != 0 {
			dst.Preamp = src.Preamp
		}
		if mask&MaskGate != 0 {
			dst.Gate = src.Gate
		}
		if mask&MaskDyn != 0 {
			dst.Dyn = src.Dyn
		}
		if mask&MaskEQ != 0 {
			dst.EQ = cloneEQ(src.EQ)
		}
		if mask&MaskMix != 0 {
			dst.Mix = cloneMix(src.Mix)
		}
		return true
	case "auxin":
		if !inRange(from, len(s.AuxIn)) || !inRange(to, len(s.AuxIn)) {
			return false
		}
		src, dst := &s.AuxIn[from], &s.AuxIn[to]
		if mask&MaskConfig != 0 {
			dst.Config = src.Config
		}
		if mask&MaskEQ != 0 {
			dst.EQ = cloneEQ(src.EQ)
		}
		if mask&MaskMix != 0 {
			dst.Mix = cloneMix(src.Mix)
		}
		return true
	case "bus":
		if !inRange(from, len(s.Bus)) || !inRange(to, len(s.Bus)) {
			return false
		}
		src, dst := &s.Bus[from], &s.Bus[to]
		if mask&MaskConfig != 0 {
			dst.Config = src.Config
		}
		if mask&MaskDyn != 0 {
			dst.Dyn = src.Dyn
		}
		if mask&MaskEQ != 0 {
			dst.EQ = cloneEQ(src.EQ)
		}
		if mask&MaskMix != 0 {
			dst.Mix = cloneMix(src.Mix)
		}
		return true
	case "mtx":
		if !inRange(from, len(s.Mtx)) || !inRange(to, len(s.Mtx)) {
			return false
		}
		src, dst := &s.Mtx[from], &s.Mtx[to]
		if mask&MaskConfig != 0 {
			dst.Config = src.Config
		}
		if mask&MaskDyn != 0 {
			dst.Dyn = src.Dyn
		}
		if mask&MaskEQ != 0 {
			dst.EQ = cloneEQ(src.EQ)
		}
		if mask&MaskMix != 0 {
			dst.Mix = cloneMix(src.Mix)
		}
		return true
	case "dca":
		if !inRange(from, len(s.DCA)) || !inRange(to, len(s.DCA)) {
			return false
		}
		src, dst := &s.DCA[from], &s.DCA[to]
		if mask&MaskConfig != 0 {
			dst.Config = src.Config
		}
		return true
	default:
		return false
	}
}

func inRange(i, n int) bool { return i >= 0 && i < n }

func cloneEQ(e state.EQ) state.EQ {
	bands := make([]state.EQBand, len(e.Bands))
	copy(bands, e.Bands)
	return state.EQ{On: e.On, Bands: bands}
}

func cloneMix(m state.Mix) state.Mix {
	sends := make([]state.Send, len(m.Sends))
	copy(sends, m.Sends)
	return state.Mix{On: m.On, Fader: m.Fader, ST: m.ST, Pan: m.Pan, Mono: m.Mono, MLevel: m.MLevel, Sends: sends}
}

func handleSave(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	lib := ""
	if len(m.Args) == 3 &&
		m.Args[0].Kind == osc.ArgString &&
		m.Args[1].Kind == osc.ArgInt &&
		m.Args[2].Kind == osc.ArgString {

		lib = m.Args[0].S
		idx := int(m.Args[1].I)
		name := m.Args[2].S
		if len(name) > maxNameLen {
			name = name[:maxNameLen]
		}

		library := ctx.State.Libraries.ByName(lib)
		if library != nil && inRange(idx, len(library.Slots)) {
			if body, okBody := serializeSubtree(lib, ctx.State, idx); okBody {
				library.Slots[idx] = state.Preset{Name: name, Body: body}
				ok = ctx.Store == nil || ctx.Store.PersistPreset(lib, idx, name, body) == nil
			}
		}
	} else if len(m.Args) > 0 && m.Args[0].Kind == osc.ArgString {
		lib = m.Args[0].S
	}

	result := int32(0)
	if ok {
		result = 1
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(lib), osc.Int(result))}}
}

func handleLoad(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	lib := ""
	if len(m.Args) == 2 && m.Args[0].Kind == osc.ArgString && m.Args[1].Kind == osc.ArgInt {
		lib = m.Args[0].S
		idx := int(m.Args[1].I)

		library := ctx.State.Libraries.ByName(lib)
		if library != nil && inRange(idx, len(library.Slots)) {
			slot := library.Slots[idx]
			if slot.Name != "" {
				ok = deserializeSubtree(lib, slot.Body, ctx.State, idx)
			}
		}
	} else if len(m.Args) > 0 && m.Args[0].Kind == osc.ArgString {
		lib = m.Args[0].S
	}

	result := int32(0)
	if ok {
		result = 1
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(lib), osc.Int(result))}}
}

func handleDelete(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	lib := ""
	if len(m.Args) == 2 && m.Args[0].Kind == osc.ArgString && m.Args[1].Kind == osc.ArgInt {
		lib = m.Args[0].S
		idx := int(m.Args[1].I)

		library := ctx.State.Libraries.ByName(lib)
		if library != nil && inRange(idx, len(library.Slots)) {
			library.Slots[idx] = state.Preset{}
			ok = ctx.Store == nil || ctx.Store.DeletePreset(lib, idx) == nil
		}
	} else if len(m.Args) > 0 && m.Args[0].Kind == osc.ArgString {
		lib = m.Args[0].S
	}

	result := int32(0)
	if ok {
		result = 1
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(lib), osc.Int(result))}}
}

func handleSnapSave(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	if len(m.Args) == 2 && m.Args[0].Kind == osc.ArgInt && m.Args[1].Kind == osc.ArgString {
		idx := int(m.Args[0].I)
		name := m.Args[1].S
		if len(name) > maxNameLen {
			name = name[:maxNameLen]
		}
		if inRange(idx, len(ctx.State.Libraries.Scenes.Slots)) {
			if body, okBody := serializeSubtree(state.LibScene, ctx.State, idx); okBody {
				ctx.State.Libraries.Scenes.Slots[idx] = state.Preset{Name: name, Body: body}
				ok = ctx.Store == nil || ctx.Store.PersistPreset(state.LibScene, idx, name, body) == nil
			}
		}
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(state.LibScene), boolResult(ok))}}
}

func handleSnapLoad(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	if len(m.Args) == 1 && m.Args[0].Kind == osc.ArgInt {
		idx := int(m.Args[0].I)
		if inRange(idx, len(ctx.State.Libraries.Scenes.Slots)) {
			slot := ctx.State.Libraries.Scenes.Slots[idx]
			if slot.Name != "" {
				ok = deserializeSubtree(state.LibScene, slot.Body, ctx.State, idx)
			}
		}
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(state.LibScene), boolResult(ok))}}
}

func handleSnapDelete(ctx *Context, m osc.Message, origin string, now time.Time) []Reply {
	ok := false
	if len(m.Args) == 1 && m.Args[0].Kind == osc.ArgInt {
		idx := int(m.Args[0].I)
		if inRange(idx, len(ctx.State.Libraries.Scenes.Slots)) {
			ctx.State.Libraries.Scenes.Slots[idx] = state.Preset{}
			ok = ctx.Store == nil || ctx.Store.DeletePreset(state.LibScene, idx) == nil
		}
	}
	return []Reply{{Message: osc.New(m.Address, osc.Str(state.LibScene), boolResult(ok))}}
}

func boolResult(ok bool) osc.Arg {
	if ok {
		return osc.Int(1)
	}
	return osc.Int(0)
}
