package source

import (
	"strings"
	"testing"

	"github.com/Player6734/slskd-stats/internal/record"
)

const samplePage = `
<html><body>
<div class="ui raised card transfer-card">
  <div class="content">
    <div class="header">alice</div>
    <table>
      <tr><th>File</th><th>Progress</th><th>Size</th></tr>
      <tr>
        <td class="transferlist-filename">Album\01 - Track.flac</td>
        <td class="transferlist-progress"><button class="ui button">Completed, Succeeded</button></td>
        <td class="transferlist-size">24.5/24.5 MB</td>
      </tr>
      <tr>
        <td class="transferlist-filename">Album\02 - Track.mp3</td>
        <td class="transferlist-progress"><button class="ui button">Completed, Errored</button></td>
        <td class="transferlist-size">1.2/8.0 MB</td>
      </tr>
    </table>
  </div>
</div>
<div class="ui raised card transfer-card">
  <div class="content">
    <div class="header">bob</div>
    <table>
      <tr><th>File</th><th>Progress</th><th>Size</th></tr>
      <tr>
        <td class="transferlist-filename">live-set.flac</td>
        <td class="transferlist-progress"><button class="ui button">Completed, Succeeded</button></td>
        <td class="transferlist-size">1.50/1.50 GB</td>
      </tr>
    </table>
  </div>
</div>
</body></html>`

func TestParseHTML(t *testing.T) {
	rows, err := ParseHTML(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ParseHTML returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	first, ok := rows[0].(record.HTMLRow)
	if !ok {
		t.Fatalf("rows[0] is %T, want record.HTMLRow", rows[0])
	}
	if first.Username != "alice" {
		t.Errorf("Username = %q, want alice", first.Username)
	}
	if first.Filename != `Album\01 - Track.flac` {
		t.Errorf("Filename = %q", first.Filename)
	}
	if first.Status != "Completed, Succeeded" {
		t.Errorf("Status = %q", first.Status)
	}
	wantBytes := int64(24.5 * 1024 * 1024)
	if first.SizeBytes != wantBytes || first.TransferredBytes != wantBytes {
		t.Errorf("sizes = %d/%d, want %d", first.TransferredBytes, first.SizeBytes, wantBytes)
	}

	second := rows[1].(record.HTMLRow)
	if second.Status != "Completed, Errored" {
		t.Errorf("Status = %q, want Completed, Errored", second.Status)
	}
	if second.TransferredBytes >= second.SizeBytes {
		t.Errorf("partial transfer parsed wrong: %d/%d", second.TransferredBytes, second.SizeBytes)
	}

	third := rows[2].(record.HTMLRow)
	if third.Username != "bob" {
		t.Errorf("Username = %q, want bob", third.Username)
	}
	if want := int64(1.5 * 1024 * 1024 * 1024); third.SizeBytes != want {
		t.Errorf("GB cell parsed to %d, want %d", third.SizeBytes, want)
	}
}

func TestParseHTMLMissingCells(t *testing.T) {
	page := `
<div class="transfer-card">
  <div class="header">carol</div>
  <table>
    <tr><td class="transferlist-filename">orphan.mp3</td></tr>
  </table>
</div>`

	rows, err := ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}

	// The incomplete row is emitted with sentinel sizes; the normalizer is
	// the single funnel that rejects it.
	row := rows[0].(record.HTMLRow)
	if row.SizeBytes != -1 || row.TransferredBytes != -1 {
		t.Errorf("sizes = %d/%d, want -1 sentinels", row.TransferredBytes, row.SizeBytes)
	}
	if _, err := record.Normalize(row); err == nil {
		t.Error("normalizer should reject the incomplete row")
	}
}
