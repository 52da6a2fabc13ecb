package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// StopWord ends caption entry, like an empty line does.
const StopWord = "stop"

// confirmAnswers are the replies taken as "yes", Russian included.
var confirmAnswers = map[string]bool{
	"y":   true,
	"yes": true,
	"д":   true,
	"да":  true,
}

// Prompter reads answers from one shared buffered reader so nothing typed
// ahead is lost between questions.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the trimmed next line. EOF after a partial line still
// yields that line.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Token asks for the storage token.
func (p *Prompter) Token() (string, error) {
	fmt.Fprint(p.out, "Enter your disk token: ")
	tok, err := p.readLine()
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return tok, err
}

// Captions collects captions until an empty line, the stop word or EOF.
func (p *Prompter) Captions() ([]string, error) {
	fmt.Fprintln(p.out, "\nENTER CAPTIONS FOR THE CAT PICTURES")
	fmt.Fprintf(p.out, "(type '%s' or leave the line empty to finish)\n", StopWord)
	fmt.Fprintln(p.out, strings.Repeat("-", 60))

	var texts []string
	for counter := 1; ; counter++ {
		fmt.Fprintf(p.out, "Caption for picture %d: ", counter)
		text, err := p.readLine()
		if errors.Is(err, io.EOF) {
			return texts, nil
		}
		if err != nil {
			return texts, err
		}
		if text == "" || strings.EqualFold(text, StopWord) {
			return texts, nil
		}
		texts = append(texts, text)
	}
}

// Options lets callers skip the confirmation.
type Options struct {
	Yes bool
}

// Confirm lists the captions and asks whether to start.
func (p *Prompter) Confirm(opts Options, texts []string) (bool, error) {
	fmt.Fprintf(p.out, "\n%d PICTURES WILL BE CREATED WITH CAPTIONS:\n", len(texts))
	for i, text := range texts {
		fmt.Fprintf(p.out, "  %d. '%s'\n", i+1, text)
	}
	if opts.Yes {
		return true, nil
	}

	fmt.Fprint(p.out, "\nStart the backup? (y/n): ")
	ans, err := p.readLine()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return confirmAnswers[strings.ToLower(ans)], nil
}
