package main

import (
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ctrm-fit/internal/feedback"
	"github.com/sells-group/ctrm-fit/internal/model"
)

// openInput opens path for reading. "-" reads stdin.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		return nil, eris.New("input path is required")
	}
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// decodeDocument decodes one YAML (or JSON) document into out, rejecting
// unknown keys.
func decodeDocument(path string, stdin io.Reader, out any) error {
	r, err := openInput(path, stdin)
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return eris.Errorf("%s is empty", path)
		}
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}

func readAnswers(path string, stdin io.Reader) (model.UserAnswers, error) {
	var a model.UserAnswers
	if err := decodeDocument(path, stdin, &a); err != nil {
		return model.UserAnswers{}, eris.Wrap(err, "read answers")
	}
	return a, nil
}

func readFeedback(path string, stdin io.Reader) (feedback.Input, error) {
	var in feedback.Input
	if err := decodeDocument(path, stdin, &in); err != nil {
		return feedback.Input{}, eris.Wrap(err, "read feedback")
	}
	return in, nil
}
