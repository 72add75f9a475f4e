package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotfetch/internal/formatter"
	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/resolver"
	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/urfave/cli/v3"
)

// inputArg joins the positional arguments, so an unquoted query keeps all of its words.
func inputArg(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}

// Interactive prompts for missing credentials and one link or query, shows the result, then offers to save it.
func (r *Runner) Interactive(ctx context.Context, cmd *cli.Command) error {
	kind, err := r.searchKind(cmd)
	if err != nil {
		return err
	}

	res := r.resolver(kind)

	r.writePlainHeader("SPOTIFY SEARCH TOOL")
	r.writePlain("Search by Spotify link (https://%s/track/...) or by %s name.\n\n", res.Host(), res.Category())

	tm, tok, err := r.authenticate(ctx, true)
	if err != nil {
		return err
	}

	input := inputArg(cmd)
	if input == "" {
		if input, err = r.prompter.Input("Enter Spotify URL or " + res.Category().String() + " name:"); err != nil {
			return err
		}
	}

	details, err := r.lookup(ctx, tm, tok, input, lookupOpts{res: res, features: true})
	if err != nil {
		return err
	}

	if err := r.render(details); err != nil {
		return err
	}

	question := "Save to file?"
	if details.Ref.Kind != models.KindTrack {
		question = "Save all tracks to file?"
	}

	save, err := r.prompter.Confirm(question)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}
	return r.export(details, "")
}

// Lookup resolves a link or query and prints the resource details.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	input := inputArg(cmd)
	if input == "" {
		return fmt.Errorf("%w: link or search query", shared.ErrMissingArgument)
	}

	kind, err := r.searchKind(cmd)
	if err != nil {
		return err
	}

	tm, tok, err := r.authenticate(ctx, false)
	if err != nil {
		return err
	}

	res := r.resolver(kind)

	details, err := r.lookup(ctx, tm, tok, input, lookupOpts{res: res, features: !cmd.Bool("no-features")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		err = r.writeJSON(formatter.ToJSON(details), true)
	} else {
		err = r.render(details)
	}
	if err != nil {
		return err
	}

	if output := cmd.String("output"); cmd.Bool("save") || output != "" {
		if err := r.export(details, output); err != nil {
			return err
		}
	}

	if cmd.Bool("open") {
		link := details.Text(models.FieldURL)
		if link == "" {
			link = res.Link(details.Ref)
		}
		if err := shared.OpenBrowser(link); err != nil {
			return err
		}
	}

	return nil
}

// Search lists the top hits for a query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := inputArg(cmd)
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	kind, err := r.searchKind(cmd)
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Search.Limit
	}

	_, tok, err := r.authenticate(ctx, false)
	if err != nil {
		return err
	}

	hits, err := r.catalog.Search(ctx, tok, query, kind, limit)
	if err != nil {
		return err
	}

	r.logger.Infof("found %v %s results", len(hits), kind)

	if cmd.Bool("json") {
		return r.writeJSON(hits, true)
	}
	return formatter.RenderSearch(r.output, query, kind, hits, formatter.RenderOptions{})
}

// Resolve prints the type and ID a link or query resolves to, without fetching details.
//
// Links are matched locally; only free text needs credentials.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	input := inputArg(cmd)
	if input == "" {
		return fmt.Errorf("%w: link or search query", shared.ErrMissingArgument)
	}

	kind, err := r.searchKind(cmd)
	if err != nil {
		return err
	}

	res := r.resolver(kind)
	ref, err := res.Match(input)
	if err != nil {
		return err
	}

	if ref.Kind == models.KindUnrecognized {
		_, tok, err := r.authenticate(ctx, false)
		if err != nil {
			return err
		}
		if ref, err = res.Resolve(ctx, tok, input); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{
			"type": ref.Kind.String(),
			"id":   ref.ID,
			"uri":  resolver.URI(ref),
			"url":  res.Link(ref),
		}, false)
	}
	return r.writePlain("%s %s\n", ref.Kind, ref.ID)
}
