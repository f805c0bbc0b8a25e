package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingopro/internal/lessons"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse and validate content packs",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all lessons (optionally filtered by pathway)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pathway, _ := cmd.Flags().GetString("pathway")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		entries := catalog.Lessons()
		if pathway != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if e.Ref.PathwayID == pathway {
					filtered = append(filtered, e)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("no lessons found for pathway %q", pathway)
			}
			entries = filtered
		}

		printLessons(cmd.OutOrStdout(), entries)
		return nil
	},
}

var lessonsValidateCmd = &cobra.Command{
	Use:   "validate <pack.json>",
	Short: "Validate a content pack file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := lessons.LoadPackFile(args[0])
		if err != nil {
			return err
		}
		catalog := lessons.NewCatalog(pack)

		questions := 0
		for _, e := range catalog.Lessons() {
			questions += len(e.Lesson.Questions)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s): %d pathways, %d lessons, %d questions\n",
			pack.ID, pack.Version, pack.Language, len(pack.Pathways), len(catalog.Lessons()), questions)
		return nil
	},
}

func init() {
	lessonsListCmd.Flags().String("pathway", "", "Filter by pathway id")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsValidateCmd)
}

func printLessons(w io.Writer, entries []lessons.Entry) {
	fmt.Fprintf(w, "%-16s  %-16s  %-20s  %-34s  %s\n",
		"Pathway", "Unit", "ID", "Title", "Questions")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, e := range entries {
		title := e.Lesson.Title
		if len(title) > 34 {
			title = title[:31] + "..."
		}
		fmt.Fprintf(w, "%-16s  %-16s  %-20s  %-34s  %d\n",
			e.Ref.PathwayID, e.Ref.UnitID, e.Ref.LessonID, title, len(e.Lesson.Questions))
	}

	fmt.Fprintf(w, "\n%d lessons\n", len(entries))
}
