package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-klatt/internal/render"
	"github.com/example/go-klatt/internal/text"
	"github.com/example/go-klatt/internal/transcript"
)

func newParseCmd() *cobra.Command {
	var frames bool

	cmd := &cobra.Command{
		Use:   "parse [input]",
		Short: "Print the parsed structure of a transcription",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			r, err := newRenderer(cfg, false)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeIn()

			paras, err := text.ReadParagraphs(in)
			if errors.Is(err, text.ErrEmptyText) {
				return errors.New("either provide an input file or pipe a transcription on stdin")
			}
			if err != nil {
				return err
			}

			return dumpParagraphs(cmd, r, paras, frames)
		},
	}

	cmd.Flags().BoolVar(&frames, "frames", false, "Also list the parameter frames of every phoneme")

	return cmd
}

// dumpParagraphs prints each paragraph, or the error that stops it from
// rendering, and keeps going.
func dumpParagraphs(cmd *cobra.Command, r *render.Renderer, paras []string, frames bool) error {
	w := cmd.OutOrStdout()
	failed := 0
	for i, line := range paras {
		fmt.Fprintf(w, "paragraph %d\n", i+1)
		para, err := r.Parse(line)
		if err != nil {
			failed++
			fmt.Fprintf(w, "  error: %v\n", err)
			continue
		}
		writeParagraph(w, para)

		if !frames {
			continue
		}
		segs, err := r.Expand(cmd.Context(), para)
		if err != nil {
			failed++
			fmt.Fprintf(w, "  error: %v\n", err)
			continue
		}
		writeSegments(w, segs)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d paragraphs failed to parse", failed, len(paras))
	}
	return nil
}

func writeParagraph(w io.Writer, para transcript.Paragraph) {
	for si, s := range para.Sentences {
		fmt.Fprintf(w, "  sentence %d%s\n", si+1, sentenceFlags(s))
		for wi, word := range s.Words {
			fmt.Fprintf(w, "    word %d %s [%s]%s\n",
				wi+1, word.Text, strings.Join(word.Symbols(), " "), wordFlags(word))
		}
	}
}

func writeSegments(w io.Writer, segs []render.Segment) {
	fmt.Fprintf(w, "  frames %d\n", len(segs))
	for _, seg := range segs {
		if seg.Pause {
			fmt.Fprintf(w, "    pause %.0fms\n", seg.PauseMS)
			continue
		}
		fmt.Fprintf(w, "    %s %.0fms f0x%.3f\n", seg.Symbol, seg.Frame.Params.DurationMS(), seg.Frame.F0)
	}
}

func sentenceFlags(s transcript.Sentence) string {
	var flags []string
	if s.Question {
		flags = append(flags, "question")
	}
	if s.Exclamation {
		flags = append(flags, "exclamation")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}

func wordFlags(w transcript.Word) string {
	var flags []string
	if w.Quoted {
		flags = append(flags, "quoted")
	}
	if w.Emphasized {
		flags = append(flags, "emphasized")
	}
	if w.Content {
		flags = append(flags, "content")
	}
	if w.Pause {
		flags = append(flags, "pause")
	}
	if len(flags) == 0 {
		return ""
	}
	return " " + strings.Join(flags, " ")
}
