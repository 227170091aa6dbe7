package output

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func newBufferLogger() (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	logger := &Logger{out: &out, errOut: &errOut}
	return logger, &out, &errOut
}

func TestLoggerRouting(t *testing.T) {
	logger, out, errOut := newBufferLogger()
	logger.SetNoColor(true)

	logger.Info("building %s", "Token")
	logger.Success("done")
	logger.Warn("suspicious %d", 7)
	logger.Error("broken")

	stdout := out.String()
	stderr := errOut.String()

	if !strings.Contains(stdout, "building Token\n") {
		t.Errorf("info missing from stdout: %q", stdout)
	}
	if !strings.Contains(stdout, "✓ done") {
		t.Errorf("success marker missing: %q", stdout)
	}
	if !strings.Contains(stderr, "Warning: suspicious 7") {
		t.Errorf("warning missing from stderr: %q", stderr)
	}
	if !strings.Contains(stderr, "Error: broken") {
		t.Errorf("error missing from stderr: %q", stderr)
	}
	if strings.Contains(stdout, "Warning") || strings.Contains(stdout, "Error") {
		t.Error("diagnostics must not reach stdout")
	}
}

func TestLoggerDebugGatedByVerbose(t *testing.T) {
	logger, out, _ := newBufferLogger()
	logger.SetNoColor(true)

	logger.Debug("hidden")
	if out.Len() != 0 {
		t.Errorf("debug printed without verbose: %q", out.String())
	}

	logger.SetVerbose(true)
	if !logger.IsVerbose() {
		t.Error("IsVerbose should report true")
	}
	logger.Debug("shown")
	if !strings.Contains(out.String(), "[DEBUG] shown") {
		t.Errorf("debug missing with verbose: %q", out.String())
	}
}

func TestLoggerJSONModeSuppressesText(t *testing.T) {
	logger, out, errOut := newBufferLogger()
	logger.SetJSONMode(true)

	logger.Info("hi")
	logger.Warn("hi")
	logger.Error("hi")
	logger.Success("hi")
	logger.Bold("hi")
	logger.Println("hi")

	if out.Len() != 0 || errOut.Len() != 0 {
		t.Errorf("JSON mode must silence text output, got %q / %q", out.String(), errOut.String())
	}
	if logger.Writer() != io.Discard {
		t.Error("Writer must discard in JSON mode")
	}
}

func TestLoggerWriter(t *testing.T) {
	logger, out, errOut := newBufferLogger()

	if logger.Writer() != out {
		t.Error("Writer should expose the output destination")
	}
	if logger.ErrWriter() != errOut {
		t.Error("ErrWriter should expose the error destination")
	}
}
