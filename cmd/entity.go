package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"atkctl/internal/fixtures"

	"github.com/spf13/cobra"
)

var entityTypes = []string{fixtures.EntityNode, fixtures.EntityTerm, fixtures.EntityMedia, fixtures.EntityMenuLink}

func newEntityCmd() *cobra.Command {
	entityCmd := &cobra.Command{
		Use:   "entity",
		Short: "Manage content entities",
	}
	deleteCmd := &cobra.Command{
		Use:       "delete <type> <id>",
		Short:     "Delete one entity",
		Long:      "Delete one entity with entity:delete. Types: " + strings.Join(entityTypes, ", ") + ".",
		Args:      cobra.ExactArgs(2),
		ValidArgs: entityTypes,
		RunE:      runEntityDelete,
	}
	entityCmd.AddCommand(deleteCmd)
	return entityCmd
}

func runEntityDelete(cmd *cobra.Command, args []string) error {
	entityType := args[0]
	known := false
	for _, t := range entityTypes {
		if t == entityType {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unsupported entity type %q, must be one of: %s", entityType, strings.Join(entityTypes, ", "))
	}
	id, err := strconv.Atoi(args[1])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", args[1])
	}

	out, err := newHelper().DeleteEntity(cmd.Context(), entityType, id)
	if err != nil {
		return err
	}
	if out = strings.TrimSpace(out); out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}
