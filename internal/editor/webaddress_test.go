package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/validation"
)

func TestWebAddressValidation(t *testing.T) {
	cases := []struct {
		address string
		state   validation.State
		message string
	}{
		{"", validation.Invalid, validation.MsgNoAddress},
		{"ab", validation.Invalid, validation.MsgAddressTooShort},
		{"not a url", validation.Invalid, validation.MsgAddressInvalid},
		{"http://x.com", validation.Valid, ""},
	}

	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindWebpage, "Site", "http://start.example.com"))
	require.NoError(t, err)
	require.Equal(t, editor.EditorWebAddress, m.Router.Active().Name())

	for _, tc := range cases {
		t.Run(tc.address, func(t *testing.T) {
			require.NoError(t, m.SetField(editor.FieldAddress, tc.address))
			s := statusOf(t, m.Router.WebAddress, "content")
			assert.Equal(t, tc.state, s.State)
			if tc.message != "" {
				assert.Equal(t, tc.message, s.Message)
			}
		})
	}
}

func TestWebAddressProviderOverride(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindWebpage, "Site", "http://x.com"))
	require.NoError(t, err)
	wa := m.Router.WebAddress

	require.NoError(t, m.SetField(editor.FieldSessionState, "true"))

	assert.True(t, wa.ProviderControlled())
	assert.Equal(t, providerURL, m.Working().URI)
	view := wa.View()
	assert.Equal(t, providerURL, view.Address)
	assert.True(t, view.AddressReadOnly)
	assert.False(t, view.PreviewEnabled)

	assert.ErrorIs(t, m.SetField(editor.FieldAddress, "http://manual.example.com"), editor.ErrReadOnly)
	assert.Equal(t, providerURL, m.Working().URI)
	_, err = wa.PreviewURL()
	assert.ErrorIs(t, err, editor.ErrPreviewDisabled)

	require.NoError(t, m.SetField(editor.FieldSessionState, "false"))
	assert.False(t, wa.ProviderControlled())
	assert.True(t, wa.View().PreviewEnabled)
	require.NoError(t, m.SetField(editor.FieldAddress, "http://manual.example.com"))
	preview, err := wa.PreviewURL()
	require.NoError(t, err)
	assert.Equal(t, "http://manual.example.com", preview)
}

func TestWebAddressLoadsProviderState(t *testing.T) {
	record := newMedia(models.KindWebpage, "Site", "http://stale.example.com")
	record.DisplaySessionProperties = &models.DisplaySessionProperties{RequestUsingSessionState: true}

	m, _, err := openEditor(&fakeWorkspace{}, record)
	require.NoError(t, err)

	assert.True(t, m.Router.WebAddress.ProviderControlled())
	assert.Equal(t, providerURL, m.Working().URI)
	assert.True(t, m.Valid())
}

func TestWebAddressMessageResetsOnceValid(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindWebpage, "Site", "http://x.com"))
	require.NoError(t, err)

	require.NoError(t, m.SetField(editor.FieldAddress, "ab"))
	assert.Equal(t, validation.MsgAddressTooShort, statusOf(t, m.Router.WebAddress, "content").Message)

	require.NoError(t, m.SetField(editor.FieldAddress, "http://y.com"))
	s := statusOf(t, m.Router.WebAddress, "content")
	assert.Equal(t, validation.Valid, s.State)
	assert.Equal(t, validation.MsgNoAddress, s.Message)
}

func TestProviderModeNeedsProviderURL(t *testing.T) {
	env := newEnv(&fakeWorkspace{}, &editor.DialogQueue{})
	env.Properties = editor.StaticProperties{}
	m := editor.NewMediaEditor(env)
	canonical := newMedia(models.KindWebpage, "Site", "http://x.com")
	require.NoError(t, m.Open(canonical))

	require.NoError(t, m.SetField(editor.FieldSessionState, "true"))

	s := statusOf(t, m.Router.WebAddress, "content")
	assert.Equal(t, validation.Invalid, s.State)
	assert.Equal(t, validation.MsgNoProviderURL, s.Message)
	_, err := m.Commit()
	assert.ErrorIs(t, err, editor.ErrInvalidMedia)
	assert.Equal(t, "http://x.com", canonical.URI)
	assert.Nil(t, canonical.DisplaySessionProperties)
}

func TestProviderRecordReopensInWebAddressEditor(t *testing.T) {
	record := newMedia(models.KindWebpage, "Site", "")
	record.DisplaySessionProperties = &models.DisplaySessionProperties{RequestUsingSessionState: true}

	m, _, err := openEditor(&fakeWorkspace{}, record)
	require.NoError(t, err)

	assert.Equal(t, editor.EditorWebAddress, m.Router.Active().Name())
	assert.True(t, m.Router.WebAddress.ProviderControlled())
	assert.Equal(t, providerURL, m.Working().URI)
	assert.True(t, m.Valid())
}
