package transport

import (
	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/subscribe"
)

// defaultMeterBlobSize is the payload size of a default /meters/1 emission
// (spec.md §4.4). Real meter blocks vary in size by stream path; this
// server only implements the default block.
const defaultMeterBlobSize = 296

// RenderMeterBlob is the default MeterRenderer: it emits a zero-filled
// blob of the declared size to the subscription's stream path. Actual
// level data is out of scope; clients exercising the meter protocol only
// depend on cadence and blob size, not content.
func RenderMeterBlob(sub subscribe.MeterSub) osc.Message {
	return osc.New(sub.StreamPath, osc.Blob(make([]byte, defaultMeterBlobSize)))
}
