package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/lokbuch/internal/images"
	"github.com/mesh-intelligence/lokbuch/internal/resman"
	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// isTerminal is a test seam for term.IsTerminal on the command's input.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// lokFlags are the editable fields of a Lok as command-line flags.
type lokFlags struct {
	name           string
	address        string
	shortName      string
	producer       string
	administration string
	decoder        bool
	image          string
}

func (f *lokFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "name of the lok")
	fs.StringVar(&f.address, "address", "", "decoder address (requires --decoder)")
	fs.StringVar(&f.shortName, "short-name", "", "short name shown on the handset, at most 5 characters (requires --decoder)")
	fs.StringVar(&f.producer, "producer", "", "producer of the model")
	fs.StringVar(&f.administration, "administration", "", "railway administration")
	fs.BoolVar(&f.decoder, "decoder", false, "the lok has a digital decoder")
	fs.StringVar(&f.image, "image", "", "picture to copy into the data directory")
}

// apply overwrites the fields of in whose flags were set on cmd.
func (f *lokFlags) apply(cmd *cobra.Command, in types.LokInput) types.LokInput {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("address") {
		in.Address = f.address
	}
	if changed("short-name") {
		in.ShortName = f.shortName
	}
	if changed("producer") {
		in.Producer = f.producer
	}
	if changed("administration") {
		in.Administration = f.administration
	}
	if changed("decoder") {
		in.DecoderPresent = f.decoder
	}
	return in
}

// parseLok validates in and, when --image was given, copies the picture
// into the data directory.
func (s *session) parseLok(cmd *cobra.Command, f *lokFlags, in types.LokInput) (types.Lok, error) {
	if err := in.Validate(); err != nil {
		return types.Lok{}, userError(err)
	}
	if cmd.Flags().Changed("image") {
		path, err := images.Import(s.dataDir, f.image)
		if err != nil {
			return types.Lok{}, userError(err)
		}
		in.ImagePath = path
	}
	return in.Lok(), nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Errorf("invalid id %q", arg))
	}
	return id, nil
}

// mustGet returns the Lok for id or a user error if there is none.
func mustGet(ctx context.Context, m *resman.Manager, id int64) (types.Lok, error) {
	lok, ok, err := m.Get(ctx, id)
	if err != nil {
		return types.Lok{}, sysError(err)
	}
	if !ok {
		return types.Lok{}, userError(fmt.Errorf("lok %d: %w", id, types.ErrNotFound))
	}
	return lok, nil
}

func newAddCmd(s *session) *cobra.Command {
	var f lokFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a lok to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				lok, err := s.parseLok(cmd, &f, f.apply(cmd, types.LokInput{}))
				if err != nil {
					return err
				}
				id, err := m.Add(ctx, lok)
				if err != nil {
					return sysError(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), lokView{ID: id, Lok: lok})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added lok %d\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show all fields of a lok",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				lok, err := mustGet(ctx, m, id)
				if err != nil {
					return err
				}
				return s.printLok(cmd.OutOrStdout(), id, lok)
			})
		},
	}
}

func newUpdateCmd(s *session) *cobra.Command {
	var f lokFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a lok",
		Long:  "Change fields of a lok. Only the flags given are changed; the rest keep their values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				old, err := mustGet(ctx, m, id)
				if err != nil {
					return err
				}
				lok, err := s.parseLok(cmd, &f, f.apply(cmd, old.Input()))
				if err != nil {
					return err
				}
				if err := m.Update(ctx, id, lok); err != nil {
					return sysError(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), lokView{ID: id, Lok: lok})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated lok %d\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

var errNotConfirmed = errors.New("stdin is not a terminal; pass --yes to delete")

func newDeleteCmd(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a lok from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				lok, err := mustGet(ctx, m, id)
				if err != nil {
					return err
				}
				if !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Delete lok %d (%s)? [y/N] ", id, lok.Name))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return nil
					}
				}
				if err := m.Remove(ctx, id); err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted lok %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks prompt on the command's output and reads the answer from its
// input. Only an interactive terminal can confirm.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	in := cmd.InOrStdin()
	if !isTerminal(in) {
		return false, userError(errNotConfirmed)
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, sysError(fmt.Errorf("read answer: %w", err))
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "j", "ja":
		return true, nil
	}
	return false, nil
}
