package ytsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube_trend_collector/internal/domain"
)

func collectingParser(maxBuffer int) (*StreamParser, *[]domain.RawVideo, *int) {
	var records []domain.RawVideo
	var errCount int
	p := NewStreamParser(maxBuffer,
		func(raw domain.RawVideo) { records = append(records, raw) },
		func(line []byte, err error) { errCount++ },
	)
	return p, &records, &errCount
}

func TestStreamParserSingleChunk(t *testing.T) {
	p, records, errCount := collectingParser(0)

	p.Write([]byte(`{"id":"a","title":"first"}` + "\n" + `{"id":"b","title":"second"}` + "\n"))
	p.Flush()

	require.Len(t, *records, 2)
	assert.Equal(t, "a", (*records)[0]["id"])
	assert.Equal(t, "b", (*records)[1]["id"])
	assert.Equal(t, 0, *errCount)
}

func TestStreamParserChunkBoundaryInvariance(t *testing.T) {
	input := []byte(`{"id":"a","view_count":100}` + "\n" +
		`{"id":"b","view_count":200}` + "\n" +
		`{"id":"c","view_count":300}`)

	for _, chunkSize := range []int{1, 2, 3, 7, 16, len(input)} {
		p, records, errCount := collectingParser(0)

		for i := 0; i < len(input); i += chunkSize {
			end := i + chunkSize
			if end > len(input) {
				end = len(input)
			}
			p.Write(input[i:end])
		}
		p.Flush()

		require.Lenf(t, *records, 3, "chunk size %d", chunkSize)
		assert.Equalf(t, "a", (*records)[0]["id"], "chunk size %d", chunkSize)
		assert.Equalf(t, "c", (*records)[2]["id"], "chunk size %d", chunkSize)
		assert.Equalf(t, 0, *errCount, "chunk size %d", chunkSize)
	}
}

func TestStreamParserTrailingDelimiterIndependence(t *testing.T) {
	for _, tail := range []string{"", "\n"} {
		p, records, _ := collectingParser(0)
		p.Write([]byte(`{"id":"a"}` + "\n" + `{"id":"b"}` + tail))
		p.Flush()

		require.Lenf(t, *records, 2, "tail %q", tail)
	}
}

func TestStreamParserMalformedLineSkipped(t *testing.T) {
	p, records, errCount := collectingParser(0)

	p.Write([]byte(`{"id":"a"}` + "\n" + `{not json` + "\n" + `{"id":"b"}` + "\n"))
	p.Flush()

	require.Len(t, *records, 2)
	assert.Equal(t, "a", (*records)[0]["id"])
	assert.Equal(t, "b", (*records)[1]["id"])
	assert.Equal(t, 1, *errCount)
}

func TestStreamParserCRLFAndBlankLines(t *testing.T) {
	p, records, errCount := collectingParser(0)

	p.Write([]byte(`{"id":"a"}` + "\r\n" + "\r\n" + "   \n" + `{"id":"b"}` + "\r\n"))
	p.Flush()

	require.Len(t, *records, 2)
	assert.Equal(t, 0, *errCount)
}

func TestStreamParserBufferBoundDiscard(t *testing.T) {
	p, records, errCount := collectingParser(32)

	// A runaway line well past the bound, with no delimiter in sight.
	junk := make([]byte, 64)
	for i := range junk {
		junk[i] = 'x'
	}
	p.Write(junk)

	// The discarded bytes must not poison the stream; subsequent lines parse.
	p.Write([]byte("\n" + `{"id":"after"}` + "\n"))
	p.Flush()

	require.Len(t, *records, 1)
	assert.Equal(t, "after", (*records)[0]["id"])
	assert.Equal(t, 0, *errCount)
}

func TestStreamParserFlushSplitsRemainingLines(t *testing.T) {
	p, records, _ := collectingParser(0)

	// No Write delimiters consumed yet; Flush must still frame both lines.
	p.buf = append(p.buf, []byte(`{"id":"a"}`+"\n"+`{"id":"b"}`)...)
	p.Flush()

	require.Len(t, *records, 2)
}
