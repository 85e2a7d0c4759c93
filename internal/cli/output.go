package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// lokView is the JSON shape of a single Lok with its id.
type lokView struct {
	ID int64 `json:"id"`
	types.Lok
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return sysError(fmt.Errorf("encode output: %w", err))
	}
	return nil
}

func (s *session) printLok(w io.Writer, id int64, lok types.Lok) error {
	if s.flags.jsonMode {
		return printJSON(w, lokView{ID: id, Lok: lok})
	}

	decoder := "no"
	if lok.DecoderPresent {
		decoder = "yes"
	}
	image := lok.ImagePathOrEmpty()
	if image == "" {
		image = types.NoDataText
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", id)
	fmt.Fprintf(tw, "Name:\t%s\n", lok.Name)
	fmt.Fprintf(tw, "Address:\t%s\n", lok.AddressPretty())
	fmt.Fprintf(tw, "Short name:\t%s\n", lok.ShortNamePretty())
	fmt.Fprintf(tw, "Producer:\t%s\n", lok.ProducerPretty())
	fmt.Fprintf(tw, "Administration:\t%s\n", lok.AdministrationPretty())
	fmt.Fprintf(tw, "Decoder:\t%s\n", decoder)
	fmt.Fprintf(tw, "Image:\t%s\n", image)
	return tw.Flush()
}

func (s *session) printPreviews(w io.Writer, previews []types.PreviewLok) error {
	if s.flags.jsonMode {
		if previews == nil {
			previews = []types.PreviewLok{}
		}
		return printJSON(w, previews)
	}
	if len(previews) == 0 {
		fmt.Fprintln(w, "No loks.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tNAME\tSHORT NAME")
	for _, p := range previews {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.AddressPretty(), p.NamePretty(), p.ShortNamePretty())
	}
	return tw.Flush()
}
