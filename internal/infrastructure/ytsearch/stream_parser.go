package ytsearch

import (
	"bytes"
	"encoding/json"

	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/logger"
)

// DefaultMaxBuffer bounds the partial-line buffer. yt-dlp emits one JSON
// object per line; a line that grows past this without a delimiter is junk.
const DefaultMaxBuffer = 1024 * 1024

// StreamParser incrementally frames a chunked byte stream into lines and
// decodes each line as one JSON record. Chunks may split lines at any byte
// boundary; the trailing partial line is carried across Write calls until
// the next delimiter or Flush.
type StreamParser struct {
	buf       []byte
	maxBuffer int
	onRecord  func(domain.RawVideo)
	onError   func(line []byte, err error)
}

// NewStreamParser creates a parser that invokes onRecord for every decoded
// record and onError for every line that fails to decode. onError may be
// nil; decode failures are then counted silently.
func NewStreamParser(maxBuffer int, onRecord func(domain.RawVideo), onError func(line []byte, err error)) *StreamParser {
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxBuffer
	}
	return &StreamParser{
		maxBuffer: maxBuffer,
		onRecord:  onRecord,
		onError:   onError,
	}
}

// Write feeds one chunk of raw bytes into the parser. Complete lines are
// decoded immediately; an unterminated tail is buffered.
func (p *StreamParser) Write(chunk []byte) {
	p.buf = append(p.buf, chunk...)

	for {
		idx := bytes.IndexByte(p.buf, '\n')
		if idx < 0 {
			break
		}
		line := p.buf[:idx]
		p.buf = p.buf[idx+1:]
		p.emit(line)
	}

	// Never saw a delimiter and the buffer is past its bound: drop the
	// accumulated bytes and restart. Lossy, but keeps one runaway line from
	// wedging the whole stream.
	if len(p.buf) > p.maxBuffer {
		logger.Error().Printf("stream parser discarding %d buffered bytes without a line delimiter", len(p.buf))
		p.buf = nil
	}
}

// Flush emits all remaining buffered content as final lines, splitting on
// any delimiters still present. Call once when the stream has terminated.
func (p *StreamParser) Flush() {
	rest := p.buf
	p.buf = nil
	for len(rest) > 0 {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			p.emit(rest)
			return
		}
		p.emit(rest[:idx])
		rest = rest[idx+1:]
	}
}

// emit decodes one framed line. A trailing carriage return is stripped so
// both \n and \r\n delimited output parse identically.
func (p *StreamParser) emit(line []byte) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}

	var raw domain.RawVideo
	if err := json.Unmarshal(line, &raw); err != nil {
		if p.onError != nil {
			p.onError(line, err)
		}
		return
	}
	if p.onRecord != nil {
		p.onRecord(raw)
	}
}
