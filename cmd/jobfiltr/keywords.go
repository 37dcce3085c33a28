package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/jobfiltr/internal/filters"
	"github.com/jonathan/jobfiltr/internal/types"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage include keywords, exclude keywords and blocked companies",
	Long: `Lists are named include, exclude or companies (or include_keywords,
exclude_keywords, exclude_companies).

Free accounts may keep 3 exclude keywords and block 1 company. Include
keywords need Pro.`,
}

var keywordsListCmd = &cobra.Command{
	Use:   "list [list]",
	Short: "Show one list, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeywordsList,
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <list> <value>",
	Short: "Add a keyword or company to a list",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeywordsAdd,
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove <list> <value>",
	Short: "Remove a keyword or company from a list",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeywordsRemove,
}

var keywordsModeCmd = &cobra.Command{
	Use:   "mode <any|all>",
	Short: "Set whether a posting needs any or all include keywords",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeywordsMode,
}

var keywordsTierCmd = &cobra.Command{
	Use:   "tier <free|pro>",
	Short: "Switch the account tier",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeywordsTier,
}

func init() {
	keywordsCmd.AddCommand(keywordsListCmd, keywordsAddCmd, keywordsRemoveCmd, keywordsModeCmd, keywordsTierCmd)
	rootCmd.AddCommand(keywordsCmd)
}

// parseList accepts the short list names as well as the stored ones.
func parseList(name string) (types.KeywordList, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "include", string(types.ListIncludeKeywords):
		return types.ListIncludeKeywords, nil
	case "exclude", string(types.ListExcludeKeywords):
		return types.ListExcludeKeywords, nil
	case "companies", "company", string(types.ListExcludeCompanies):
		return types.ListExcludeCompanies, nil
	}
	return "", fmt.Errorf("unknown list %q: expected include, exclude or companies", name)
}

// listView is the --json output of keywords list.
type listView struct {
	List      types.KeywordList `json:"list"`
	Values    []string          `json:"values"`
	Limit     int               `json:"limit"`
	IsPro     bool              `json:"is_pro"`
	MatchMode types.MatchMode   `json:"match_mode,omitempty"`
}

func (a *app) listView(list types.KeywordList) listView {
	switch list {
	case types.ListIncludeKeywords:
		cfg := a.engine.IncludeKeywords().Config()
		limit := 0
		if cfg.IsPro {
			limit = filters.Unlimited
		}
		return listView{List: list, Values: cfg.Keywords, Limit: limit, IsPro: cfg.IsPro, MatchMode: cfg.MatchMode}
	case types.ListExcludeKeywords:
		cfg := a.engine.ExcludeKeywords().Config()
		return listView{List: list, Values: cfg.Values, Limit: cfg.Limit, IsPro: cfg.IsPro}
	default:
		cfg := a.engine.ExcludeCompanies().Config()
		return listView{List: list, Values: cfg.Values, Limit: cfg.Limit, IsPro: cfg.IsPro}
	}
}

func (a *app) printList(v listView) {
	name := strings.ReplaceAll(string(v.List), "_", " ")
	if v.MatchMode != "" {
		name = fmt.Sprintf("%s (match %s)", name, v.MatchMode)
	}
	a.printer.PrintList(name, v.Values, v.Limit)
}

func runKeywordsList(cmd *cobra.Command, args []string) error {
	lists := []types.KeywordList{types.ListIncludeKeywords, types.ListExcludeKeywords, types.ListExcludeCompanies}
	if len(args) == 1 {
		list, err := parseList(args[0])
		if err != nil {
			return err
		}
		lists = []types.KeywordList{list}
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	views := make([]listView, len(lists))
	for i, l := range lists {
		views[i] = a.listView(l)
	}
	if jsonOutputFlag {
		return a.writeJSON(views)
	}
	for _, v := range views {
		a.printList(v)
	}
	return nil
}

func runKeywordsAdd(cmd *cobra.Command, args []string) error {
	list, err := parseList(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	switch list {
	case types.ListIncludeKeywords:
		err = a.engine.IncludeKeywords().AddKeyword(ctx, args[1])
	case types.ListExcludeKeywords:
		err = a.engine.ExcludeKeywords().AddKeyword(ctx, args[1])
	default:
		err = a.engine.ExcludeCompanies().AddCompany(ctx, args[1])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ added %q to %s\n", args[1], list)
	return nil
}

func runKeywordsRemove(cmd *cobra.Command, args []string) error {
	list, err := parseList(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	switch list {
	case types.ListIncludeKeywords:
		err = a.engine.IncludeKeywords().RemoveKeyword(ctx, args[1])
	case types.ListExcludeKeywords:
		err = a.engine.ExcludeKeywords().RemoveKeyword(ctx, args[1])
	default:
		err = a.engine.ExcludeCompanies().RemoveCompany(ctx, args[1])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ removed %q from %s\n", args[1], list)
	return nil
}

func runKeywordsMode(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	mode := types.MatchMode(strings.ToLower(args[0]))
	if err := a.engine.IncludeKeywords().SetMatchMode(cmd.Context(), mode); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ include keywords now match %s\n", mode)
	return nil
}

func runKeywordsTier(cmd *cobra.Command, args []string) error {
	var pro bool
	switch strings.ToLower(args[0]) {
	case "pro":
		pro = true
	case "free":
	default:
		return fmt.Errorf("unknown tier %q: expected free or pro", args[0])
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.SetPro(cmd.Context(), pro); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ tier set to %s\n", strings.ToLower(args[0]))
	return nil
}
