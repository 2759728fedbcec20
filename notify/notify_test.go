package notify

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/catalog-crawler/utils"
	"github.com/stretchr/testify/require"
)

var rows = []SiteSummary{
	{Site: "fortune", State: "done", Records: 12, Skipped: 1, Valid: 10, Invalid: 2, Duration: 90 * time.Second},
	{Site: "traderjoes", State: "failed", Valid: -1, Invalid: -1, Err: errors.New("fetch https://www.traderjoes.com/: status code 503")},
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, rows)
	out := buf.String()
	require.Contains(t, out, "fortune")
	require.Contains(t, out, "1m30s")
	require.Contains(t, out, "status code 503")
}

func TestSendSummary(t *testing.T) {
	m, err := NewMailer("key", "Crawler <crawler@example.com>", "ops@example.com")
	require.NoError(t, err)

	var gotFrom, gotTo utils.EmailAddress
	var gotText, gotHTML string
	m.send = func(apiKey string, from, to utils.EmailAddress, subject, text, html string) error {
		require.Equal(t, "key", apiKey)
		require.Equal(t, "crawl finished", subject)
		gotFrom, gotTo, gotText, gotHTML = from, to, text, html
		return nil
	}

	require.NoError(t, m.SendSummary("crawl finished", rows))
	require.Equal(t, utils.EmailAddress{Name: "Crawler", Address: "crawler@example.com"}, gotFrom)
	require.Equal(t, "ops@example.com", gotTo.Address)
	require.Contains(t, gotText, "traderjoes")
	require.Contains(t, gotHTML, "<table")
}

func TestNewMailerRejectsBadAddress(t *testing.T) {
	_, err := NewMailer("key", "not an address", "ops@example.com")
	require.ErrorContains(t, err, "notify from")
}
