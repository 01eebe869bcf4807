package linesrv

import (
	"github.com/rs/zerolog"

	"github.com/linesrv/linesrv/frame"
)

// verdict is the dispatcher's decision for one frame: what to write
// back, and what happens to the connection afterwards.
type verdict struct {
	status  string
	payload string

	// closeAfter: write the response, then close the connection. No
	// command sets it today: quit is defined here as closing without a
	// response. A server that instead acknowledges quit with a minimal
	// OK/empty pair before closing would set it; the FSM edge is kept
	// so that choice stays a one-line change.
	closeAfter bool
	// silentClose: write nothing and close. Takes precedence over the
	// response fields.
	silentClose bool
}

// dispatch validates one frame payload and executes it. Codec failures
// and out-of-bounds reads all map to an ERR verdict with the connection
// kept open; only quit and shutdown end it.
func (s *Server) dispatch(log zerolog.Logger, payload []byte) verdict {
	fr, err := frame.Parse(payload)
	if err != nil {
		s.stats.recordFrameError(err)
		log.Debug().Err(err).Int("len", len(payload)).Msg("frame rejected")
		return verdict{status: frame.StatusErr}
	}

	switch fr.Command {
	case frame.CmdGet:
		line, err := s.store.Line(int(fr.Index))
		if err != nil {
			s.stats.recordOutOfBounds()
			log.Debug().Uint32("index", fr.Index).Msg("index out of bounds")
			return verdict{status: frame.StatusErr}
		}
		s.stats.recordLineServed()
		log.Info().Uint32("index", fr.Index).Msg("get")
		return verdict{status: frame.StatusOK, payload: line}

	case frame.CmdQuit:
		// nothing is written on quit; the connection just closes
		// (see the package doc)
		s.stats.recordQuit()
		log.Info().Msg("quit")
		return verdict{silentClose: true}

	default: // frame.CmdShutdown, Parse admits nothing else
		s.stats.recordShutdown()
		log.Info().Msg("shutdown requested")
		s.shutdown.Trigger()
		return verdict{silentClose: true}
	}
}
