package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/pkg/client"
	"github.com/shashiranjanraj/bizadmin/pkg/view"
)

// entity describes one CRUD collection for the data commands.
type entity[T any] struct {
	use     string
	short   string
	path    string
	columns []string        // JSON field names shown by list
	numeric map[string]bool // fields sent as JSON numbers
	text    func(T) string  // searchable text
}

func foodCmd() *cobra.Command {
	return newEntityCmd(entity[models.Food]{
		use: "food", short: "Manage foods", path: "/api/food",
		columns: []string{"id", "name", "descr", "price", "qty"},
		numeric: map[string]bool{"qty": true},
		text:    models.Food.SearchText,
	})
}

func leadsCmd() *cobra.Command {
	return newEntityCmd(entity[models.Lead]{
		use: "leads", short: "Manage leads (customers)", path: "/api/leads",
		columns: []string{"id", "lead_name", "lead_phone", "lead_email", "lead_address"},
		text:    models.Lead.SearchText,
	})
}

func productsCmd() *cobra.Command {
	return newEntityCmd(entity[models.Product]{
		use: "products", short: "Manage products", path: "/api/products",
		columns: []string{"id", "title", "price", "sold", "image"},
		numeric: map[string]bool{"price": true, "sold": true},
		text:    models.Product.SearchText,
	})
}

func newEntityCmd[T any](e entity[T]) *cobra.Command {
	newList := func() *view.List[T] {
		return view.NewList[T](client.NewResource[T](apiClient(), e.path), e.text)
	}

	root := &cobra.Command{Use: e.use, Short: e.short}

	var (
		search   string
		page     int
		pageSize int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List rows, filtered and paged locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := newList()
			if _, err := l.Load(cmd.Context()); err != nil {
				return err
			}
			rows, pages := l.Page(search, page, pageSize)
			if err := printRows(e.columns, rows); err != nil {
				return err
			}
			fmt.Printf("page %d of %d\n", page, pages)
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "case-insensitive filter")
	list.Flags().IntVarP(&page, "page", "p", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 10, "rows per page")

	var set map[string]string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a row from --set field=value pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := view.NewDraft(newList())
			d.OpenNew()
			if err := apply(d, set, e.numeric); err != nil {
				return err
			}
			row, err := d.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return printRows(e.columns, []T{*row})
		},
	}
	add.Flags().StringToStringVar(&set, "set", nil, "field=value (repeatable)")

	var editSet map[string]string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a row, starting from its current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l := newList()
			rows, err := l.Load(cmd.Context())
			if err != nil {
				return err
			}
			current, err := findRow(rows, id)
			if err != nil {
				return err
			}
			d := view.NewDraft(l)
			d.OpenEdit(id, current)
			if err := apply(d, editSet, e.numeric); err != nil {
				return err
			}
			row, err := d.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return printRows(e.columns, []T{*row})
		},
	}
	edit.Flags().StringToStringVar(&editSet, "set", nil, "field=value (repeatable); field= clears it")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			row, err := newList().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRows(e.columns, []T{*row})
		},
	}

	root.AddCommand(list, add, edit, rm)
	return root
}

// apply sets each pair on d. Empty values become null; numeric fields
// must parse as numbers.
func apply[T any](d *view.Draft[T], set map[string]string, numeric map[string]bool) error {
	for k, v := range set {
		switch {
		case v == "":
			d.Set(k, nil)
		case numeric[k]:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s must be a number, got %q", k, v)
			}
			d.Set(k, json.Number(strconv.FormatFloat(n, 'f', -1, 64)))
		default:
			d.Set(k, v)
		}
	}
	return nil
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

// findRow returns the fields of row id from rows, keyed by JSON name.
func findRow[T any](rows []T, id uint) (map[string]any, error) {
	maps, err := toMaps(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range maps {
		if n, ok := m["id"].(json.Number); ok && n.String() == strconv.FormatUint(uint64(id), 10) {
			delete(m, "id")
			delete(m, "created_at")
			return m, nil
		}
	}
	return nil, fmt.Errorf("row %d not found", id)
}

func toMaps[T any](rows []T) ([]map[string]any, error) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var out []map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func printRows[T any](columns []string, rows []T) error {
	maps, err := toMaps(rows)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))
	for _, m := range maps {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := m[c]; ok && v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
