package cosmolog

import "strings"

// ExcTextKey is the payload key carrying attached exception text.
const ExcTextKey = "exc_text"

var excPlaceholder = "{" + ExcTextKey + "}"

// AttachException returns a copy of the event whose payload carries excText
// under exc_text and whose format references {exc_text}, so the traceback is
// guaranteed to surface in the rendered message. The input event is never
// mutated.
//
// Attaching is idempotent and advisory: an empty excText is a no-op, a
// pre-existing exc_text payload value wins over excText, and a format that
// already contains {exc_text} is left alone. An event with an empty format
// gets "{exc_text}" as its whole format.
func AttachException(e *Event, excText string) *Event {
	if excText == "" {
		return e
	}
	_, hasKey := e.Payload.Get(ExcTextKey)
	hasPlaceholder := strings.Contains(e.Format, excPlaceholder)
	if hasKey && hasPlaceholder {
		return e
	}

	out := e.clone()
	if !hasKey {
		out.Payload.Set(ExcTextKey, String(excText))
	}
	if !hasPlaceholder {
		if out.Format == "" {
			out.Format = excPlaceholder
		} else {
			out.Format += "\n" + excPlaceholder
		}
	}
	return out
}
