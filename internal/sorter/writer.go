package sorter

import "bufio"

// lineSink receives finished output lines.
type lineSink interface {
	writeLine(line string)
	writeLines(lines []string)
}

// lineWriter streams lines to a buffered writer and remembers the first error.
type lineWriter struct {
	writer     *bufio.Writer
	lineEnding string
	err        error
}

func (sink *lineWriter) writeLine(line string) {
	if sink.err != nil {
		return
	}
	if _, sink.err = sink.writer.WriteString(line); sink.err != nil {
		return
	}
	_, sink.err = sink.writer.WriteString(sink.lineEnding)
}

func (sink *lineWriter) writeLines(lines []string) {
	for _, line := range lines {
		sink.writeLine(line)
	}
}

func (sink *lineWriter) finish() error {
	if sink.err != nil {
		return sink.err
	}
	return sink.writer.Flush()
}

// lineCollector keeps lines in memory.
type lineCollector struct {
	lines []string
}

func (sink *lineCollector) writeLine(line string) {
	sink.lines = append(sink.lines, line)
}

func (sink *lineCollector) writeLines(lines []string) {
	sink.lines = append(sink.lines, lines...)
}
