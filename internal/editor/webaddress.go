package editor

import (
	"strings"

	"github.com/pkg/errors"

	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// WebAddressEditor edits webpage media that points at an external site.
//
// The address field has two states. It is editable by default; when the
// record asks for the strategy to be requested using session state, an
// external strategy provider supplies the address, so the field becomes
// read only, shows the provider's URL and preview is disabled.
type WebAddressEditor struct {
	panel

	address          string
	providerControls bool
}

func NewWebAddressEditor(env Env) *WebAddressEditor {
	return &WebAddressEditor{panel: newPanel(env, EditorWebAddress, models.KindWebpage, validation.MsgNoAddress)}
}

func (e *WebAddressEditor) Edit(record *models.Media) error {
	if err := e.bind(record); err != nil {
		return err
	}
	if err := e.ResetPanel(record.Properties); err != nil {
		return err
	}
	e.address = record.URI
	e.refreshDisplayProperties()
	e.Validate()
	return nil
}

func (e *WebAddressEditor) ResetPanel(props models.MediaProperties) error {
	if err := e.resetPanel(props); err != nil {
		return err
	}
	e.address = ""
	e.providerControls = false
	return nil
}

// SetAddress stores the trimmed address on the record.
func (e *WebAddressEditor) SetAddress(text string) error {
	if e.record == nil {
		return ErrNotEditing
	}
	if e.readOnly || e.providerControls {
		return ErrReadOnly
	}
	e.address = text
	e.record.URI = strings.TrimSpace(text)
	e.validateAddress()
	return nil
}

// SetRequestUsingSessionState hands the address over to the external
// strategy provider, or takes it back.
func (e *WebAddressEditor) SetRequestUsingSessionState(on bool) error {
	if e.record == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return ErrReadOnly
	}
	if e.record.DisplaySessionProperties == nil {
		e.record.DisplaySessionProperties = &models.DisplaySessionProperties{}
	}
	e.record.DisplaySessionProperties.RequestUsingSessionState = on
	e.refreshDisplayProperties()
	e.validateAddress()
	return nil
}

func (e *WebAddressEditor) refreshDisplayProperties() {
	dsp := e.record.DisplaySessionProperties
	if dsp == nil || !dsp.RequestUsingSessionState {
		e.providerControls = false
		return
	}

	e.providerControls = true
	providerURL := e.env.property(models.PropertyExternalStrategyProviderURL)
	e.address = providerURL
	e.record.URI = providerURL
}

// ProviderControlled reports whether the address is supplied externally.
func (e *WebAddressEditor) ProviderControlled() bool { return e.providerControls }

// PreviewURL returns the address to open for a preview.
func (e *WebAddressEditor) PreviewURL() (string, error) {
	if e.record == nil {
		return "", ErrNotEditing
	}
	if e.providerControls {
		return "", ErrPreviewDisabled
	}
	if msg := validation.CheckAddress(e.record.URI); msg != "" {
		return "", errors.Wrap(ErrInvalidArgument, msg)
	}
	return e.record.URI, nil
}

func (e *WebAddressEditor) validateAddress() {
	if e.providerControls {
		if strings.TrimSpace(e.address) == "" {
			e.contentStatus.SetMessage(validation.MsgNoProviderURL)
			return
		}
		e.contentStatus.Set(true)
		return
	}
	if msg := validation.CheckAddress(e.address); msg != "" {
		e.contentStatus.SetMessage(msg)
		return
	}
	e.contentStatus.Set(true)
}

func (e *WebAddressEditor) Validate() {
	e.validateName()
	e.validateAddress()
}

func (e *WebAddressEditor) Statuses() []*validation.Status {
	return []*validation.Status{e.nameStatus, e.contentStatus}
}

func (e *WebAddressEditor) Clear() {
	e.clearStatuses(e.Statuses()...)
	e.release()
}

func (e *WebAddressEditor) View() View {
	v := e.baseView(e.Statuses())
	v.Address = e.address
	v.AddressReadOnly = e.readOnly || e.providerControls
	v.PreviewEnabled = !e.providerControls
	return v
}
