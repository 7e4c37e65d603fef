package presenter

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*Presenter, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	return NewWithWriters(&out, &errOut), &out, &errOut
}

func TestError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "Failed to load database")
	assert.Empty(t, out.String())
	assert.Equal(t, "[ERROR] Failed to load database: boom\n", errOut.String())
}

func TestErrorWithoutContext(t *testing.T) {
	p, _, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "")
	assert.Equal(t, "[ERROR] boom\n", errOut.String())
}

func TestErrorNil(t *testing.T) {
	p, _, errOut := newTestPresenter()

	p.Error(nil, "context")
	assert.Empty(t, errOut.String())
}

func TestSuccessWarningInfo(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("saved")
	p.Warning("2 findings")
	p.Info("done")

	assert.Contains(t, out.String(), "✓ saved")
	assert.Contains(t, out.String(), "⚠ 2 findings")
	assert.Contains(t, out.String(), "done\n")
}

func TestQuietSuppressesAllButErrors(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("saved")
	p.Warning("warn")
	p.Info("info")
	p.Section("Validation")
	p.Separator()
	assert.Empty(t, out.String())

	p.Error(errors.New("boom"), "")
	assert.NotEmpty(t, errOut.String())
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Section("Findings")
	assert.Equal(t, "Findings\n--------\n", out.String())
}
