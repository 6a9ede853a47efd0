// Package prompt reads yes/no confirmations from an interactive stream.
package prompt

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	affirmativeShortResponseConstant = "y"
	affirmativeLongResponseConstant  = "yes"
	responseDelimiterConstant        = '\n'
	lineTerminatorConstant           = "\n"
)

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and accepts only y/yes; empty input and EOF mean no.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString(responseDelimiterConstant)
	if readError != nil {
		if !errors.Is(readError, io.EOF) {
			return false, readError
		}
		// The terminal never echoed a newline; end the prompt line ourselves.
		if prompter.writer != nil {
			if _, writeError := io.WriteString(prompter.writer, lineTerminatorConstant); writeError != nil {
				return false, writeError
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}
