package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

//go:embed status.html.tmpl
var statusTemplate string

var pageTmpl = template.Must(template.New("status").Parse(statusTemplate))

type pageData struct {
	Cycle    *models.CheckCycle
	Groups   []Group
	Online   int
	Offline  int
	Uptime   int
	LastSync string
	Updated  string
}

// StatusPage writes the HTML status page. Without a completed cycle it writes
// a placeholder page.
func StatusPage(w io.Writer, in Input) error {
	data := pageData{Cycle: in.Latest}

	if in.Latest != nil {
		data.Groups = GroupResults(in.Latest.Results)
		data.Online = in.Latest.Online()
		data.Offline = len(in.Latest.Results) - data.Online
		data.Uptime = in.Uptime
		data.LastSync = in.lastSyncText()
		data.Updated = in.Latest.ObservedAt.Format(timeLayout)
	}

	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render status page: %w", err)
	}
	return nil
}

// StatusPageBytes renders the status page into memory.
func StatusPageBytes(in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := StatusPage(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
