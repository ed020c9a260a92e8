package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/rankit/boundary"
	"github.com/rushteam/rankit/core"
)

func recommendCmd() *cobra.Command {
	var (
		in      boundary.RecommendInput
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend items for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Limit = intFlag(cmd, "limit")
			in.DiversityFactor = floatFlag(cmd, "diversity")
			req, err := in.Request(time.Now())
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.engine.Recommend(cmd.Context(), req)
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}
			return printEnvelope(cmd, boundary.Recommendation(p, boundary.Options{Explain: explain}), nil)
		},
	}
	cmd.Flags().StringVar(&in.UserID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&in.BasedOn, "based-on", "", "seed item id or category:<name>")
	cmd.Flags().Int("limit", boundary.DefaultLimit, "number of results")
	cmd.Flags().Float64("diversity", boundary.DefaultDiversityFactor, "diversity factor in [0,1]")
	cmd.Flags().BoolVar(&explain, "explain", false, "include scoring features")
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		in      boundary.SearchInput
		filters []string
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search items by query and attribute filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseFilters(filters)
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}
			in.Filters = parsed
			in.Limit = intFlag(cmd, "limit")
			in.Offset = intFlag(cmd, "offset")
			in.DiversityFactor = floatFlag(cmd, "diversity")
			req, err := in.Request(time.Now())
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.engine.Search(cmd.Context(), req)
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}
			return printEnvelope(cmd, boundary.Search(p, boundary.Options{Explain: explain}), nil)
		},
	}
	cmd.Flags().StringVar(&in.Query, "query", "", "search query")
	cmd.Flags().StringVar(&in.UserID, "user", "", "optional user id")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "attribute filter name=v1,v2 (repeatable)")
	cmd.Flags().Int("limit", boundary.DefaultLimit, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
	cmd.Flags().Float64("diversity", 0, "diversity factor in [0,1]")
	cmd.Flags().BoolVar(&explain, "explain", false, "include scoring features")
	return cmd
}

func discoverCmd() *cobra.Command {
	var (
		in      boundary.DiscoverInput
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List popular and fresh items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Limit = intFlag(cmd, "limit")
			req, err := in.Request(time.Now())
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.engine.Discover(cmd.Context(), req)
			if err != nil {
				return printEnvelope(cmd, boundary.Failure(err), err)
			}
			return printEnvelope(cmd, boundary.Discover(p, boundary.Options{Explain: explain}), nil)
		},
	}
	cmd.Flags().StringVar(&in.UserID, "user", "", "optional user id, excludes items the user interacted with")
	cmd.Flags().Int("limit", boundary.DefaultLimit, "number of results")
	cmd.Flags().BoolVar(&explain, "explain", false, "include scoring features")
	return cmd
}

// printEnvelope 输出响应；err 非空时仍输出失败响应，并返回错误使进程以非零状态退出。
func printEnvelope(cmd *cobra.Command, env boundary.Envelope, err error) error {
	if werr := writeJSON(cmd.OutOrStdout(), env); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("%s", core.ErrorCode(err))
	}
	return nil
}

// parseFilters 解析 name=v1,v2 形式的过滤条件，同名多次出现时合并取值。
func parseFilters(raw []string) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(raw))
	for _, f := range raw {
		name, values, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, core.InvalidInput(core.ModuleRequest, fmt.Sprintf("invalid filter %q, want name=v1,v2", f))
		}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out[name] = append(out[name], v)
			}
		}
	}
	return out, nil
}

func intFlag(cmd *cobra.Command, name string) *int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func floatFlag(cmd *cobra.Command, name string) *float64 {
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}
