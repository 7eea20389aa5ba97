package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/qr"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

var errWrite = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestParseFormat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FormatJSON, ParseFormat(" JSON "))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatAuto, ParseFormat("auto"))
	assert.Equal(t, FormatAuto, ParseFormat("yaml"))
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.Equal(t, FormatText, DetectFormat(&buf, FormatText))
	assert.Equal(t, FormatJSON, DetectFormat(&buf, FormatAuto))
	assert.Equal(t, FormatJSON, DetectFormat(&buf, ""))
	assert.False(t, IsTerminal(&buf))
	assert.False(t, IsTerminal(nil))
}

func TestFormatter_Emit(t *testing.T) {
	t.Parallel()
	payload := map[string]string{"transferUri": "ton://transfer/EQabc?amount=1&text=hi"}

	var jsonBuf bytes.Buffer
	f := NewFormatter(FormatAuto, &jsonBuf)
	assert.Equal(t, FormatJSON, f.Format())
	require.NoError(t, f.Emit(payload, func(io.Writer) error {
		t.Fatal("text renderer called in json mode")
		return nil
	}))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, payload, decoded)
	assert.Contains(t, jsonBuf.String(), "\n  \"transferUri\"")
	assert.Contains(t, jsonBuf.String(), "amount=1&text=hi", "links are not HTML-escaped")

	var textBuf bytes.Buffer
	tf := NewFormatter(FormatText, &textBuf)
	assert.Equal(t, FormatText, tf.Format())
	require.NoError(t, tf.Emit(payload, func(w io.Writer) error {
		_, err := io.WriteString(w, "custom\n")
		return err
	}))
	require.NoError(t, tf.Emit("plain", nil))
	assert.Equal(t, "custom\nplain\n", textBuf.String())
}

func TestFormatError_Text(t *testing.T) {
	t.Parallel()
	err := sigilerr.WithSuggestion(
		sigilerr.WithDetails(sigilerr.ErrDuplicateWallet, map[string]string{"z": "2", "address": "EQabc"}),
		"select it instead",
	)

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatText))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Error: "))
	assert.Less(t, strings.Index(out, "address: EQabc"), strings.Index(out, "z: 2"))
	assert.Contains(t, out, "Suggestion: select it instead")
}

func TestFormatError_JSON(t *testing.T) {
	t.Parallel()
	err := sigilerr.WithCause(sigilerr.ErrNetworkError, errWrite)

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatJSON))

	var out ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, sigilerr.ErrNetworkError.Code, out.Error.Code)
	assert.Contains(t, out.Error.Message, "write failed")
	assert.Equal(t, sigilerr.ExitGeneral, out.Error.ExitCode)
}

func TestFormatError_GenericAndNil(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, nil, FormatText))
	assert.Empty(t, buf.String())

	require.NoError(t, FormatError(&buf, errWrite, FormatText))
	assert.Equal(t, "Error: write failed\n", buf.String())

	detail := NewErrorDetail(errWrite)
	assert.Equal(t, "GENERAL_ERROR", detail.Code)

	require.ErrorIs(t, FormatError(failingWriter{}, errWrite, FormatText), errWrite)
}

func TestMessages(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	Info(&buf, "probing %d versions", 9)
	Warn(&buf, "no balance")
	Success(&buf, "saved %s", "Account 1")

	out := buf.String()
	assert.Contains(t, out, "probing 9 versions")
	assert.Contains(t, out, "no balance")
	assert.Contains(t, out, "✅ saved Account 1")
}

func TestTable(t *testing.T) {
	t.Parallel()
	tbl := NewTable("NAME", "ADDRESS")
	tbl.AddRow("Account 1", "EQabc")
	tbl.AddRow("Ö", "EQlonger-address", "extra")
	assert.Equal(t, 2, tbl.Len())

	lines := strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME       ADDRESS", lines[0])
	assert.Equal(t, "---------  ----------------  -----", lines[1])
	assert.Equal(t, "Account 1  EQabc", lines[2])
	assert.Equal(t, "Ö          EQlonger-address  extra", lines[3])

	assert.Empty(t, NewTable().String())
	require.ErrorIs(t, tbl.Render(failingWriter{}), errWrite)
}

func TestTransferRequest_URI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		req  TransferRequest
		want string
	}{
		{"address only", TransferRequest{Address: "EQabc"}, "ton://transfer/EQabc"},
		{"zero amount dropped", TransferRequest{Address: "EQabc", Amount: big.NewInt(0)}, "ton://transfer/EQabc"},
		{"amount", TransferRequest{Address: "EQabc", Amount: big.NewInt(1_500_000_000)}, "ton://transfer/EQabc?amount=1500000000"},
		{"amount and text", TransferRequest{Address: "EQabc", Amount: big.NewInt(5), Text: "coffee & cake"}, "ton://transfer/EQabc?amount=5&text=coffee+%26+cake"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.req.URI())
		})
	}
}

func TestQR(t *testing.T) {
	t.Parallel()

	cfg := DefaultQRConfig()
	assert.Equal(t, qr.L, cfg.Level)
	assert.True(t, cfg.HalfBlocks)

	var buf bytes.Buffer
	assert.False(t, RenderQR(&buf, TransferRequest{Address: "EQabc"}.URI(), cfg))
	assert.Empty(t, buf.String())
}
