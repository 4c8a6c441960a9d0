package occupancy

import "strings"

// sourceChannels maps the explicit source tag carried by newer block rows.
var sourceChannels = map[string]Channel{
	"manual":      ChannelManual,
	"host":        ChannelManual,
	"airbnb":      ChannelAirbnb,
	"vrbo":        ChannelVrbo,
	"booking.com": ChannelBookingCom,
	"booking_com": ChannelBookingCom,
	"expedia":     ChannelExpedia,
}

// labelHints drive the free-text fallback for rows that predate the source
// column. First match wins; the order is historical, not load-bearing.
var labelHints = []struct {
	substr  string
	channel Channel
}{
	{"airbnb", ChannelAirbnb},
	{"vrbo", ChannelVrbo},
	{"booking", ChannelBookingCom},
	{"expedia", ChannelExpedia},
}

// ClassifyBlock resolves a block row's channel. An explicit recognized
// source wins; an explicit unrecognized source collapses to OTHER; a missing
// source falls back to label sniffing.
func ClassifyBlock(source, label string) Channel {
	src := strings.ToLower(strings.TrimSpace(source))
	if src != "" {
		if ch, ok := sourceChannels[src]; ok {
			return ch
		}
		return ChannelOther
	}
	return ClassifyLabel(label)
}

// ClassifyLabel is the heuristic half of ClassifyBlock, kept separate so it
// can be deleted once upstream rows all carry an explicit source.
func ClassifyLabel(label string) Channel {
	l := strings.ToLower(label)
	for _, hint := range labelHints {
		if strings.Contains(l, hint.substr) {
			return hint.channel
		}
	}
	return ChannelManual
}
