package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter asks for configuration values one line at a time.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error) // reads the API key without echo; nil means plain line input
}

// NewPrompter creates a Prompter. When in is a terminal the API key is read without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.secret = func() (string, error) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			return string(b), err
		}
	}
	return p
}

// ask prints the question with the current value and returns the answer,
// or current when the answer is empty.
func (p *Prompter) ask(label, shown, current string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, shown)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return current, err
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return current, nil
}

func (p *Prompter) askSecret(label, shown, current string) (string, error) {
	if p.secret == nil {
		return p.ask(label, shown, current)
	}
	fmt.Fprintf(p.out, "%s [%s]: ", label, shown)
	answer, err := p.secret()
	if err != nil {
		return current, err
	}
	if answer = strings.TrimSpace(answer); answer != "" {
		return answer, nil
	}
	return current, nil
}

// Edit walks through every field of cfg and returns the edited copy.
// Empty answers keep the current value. Unparsable numbers keep the previous
// value and print a notice.
func (p *Prompter) Edit(cfg Config) (Config, error) {
	var err error

	if cfg.APIType, err = p.ask("API type (openai, azure)", cfg.APIType, cfg.APIType); err != nil {
		return cfg, err
	}
	if cfg.APIKey, err = p.askSecret("API key", cfg.MaskedKey(), cfg.APIKey); err != nil {
		return cfg, err
	}
	if cfg.APIType == APITypeAzure {
		if cfg.AzureEndpoint, err = p.ask("Azure endpoint", cfg.AzureEndpoint, cfg.AzureEndpoint); err != nil {
			return cfg, err
		}
	}
	if cfg.Model, err = p.ask("Model", cfg.Model, cfg.Model); err != nil {
		return cfg, err
	}

	temp := strconv.FormatFloat(cfg.Temperature, 'g', -1, 64)
	answer, err := p.ask("Temperature", temp, temp)
	if err != nil {
		return cfg, err
	}
	if v, perr := strconv.ParseFloat(answer, 64); perr == nil {
		cfg.Temperature = v
	} else {
		fmt.Fprintln(p.out, "Invalid temperature value, keeping previous value")
	}

	maxTokens := strconv.Itoa(cfg.MaxTokens)
	answer, err = p.ask("Max tokens", maxTokens, maxTokens)
	if err != nil {
		return cfg, err
	}
	if v, perr := strconv.Atoi(answer); perr == nil {
		cfg.MaxTokens = v
	} else {
		fmt.Fprintln(p.out, "Invalid max_tokens value, keeping previous value")
	}

	if cfg.RepositoryPath, err = p.ask("Repository path", cfg.RepositoryPath, cfg.RepositoryPath); err != nil {
		return cfg, err
	}
	return cfg, nil
}
