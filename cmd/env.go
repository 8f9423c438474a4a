package cmd

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/option"

	"github.com/ginjaninja78/travel-desk/internal/config"
	"github.com/ginjaninja78/travel-desk/internal/source"
	"github.com/ginjaninja78/travel-desk/internal/source/gsheets"
	"github.com/ginjaninja78/travel-desk/internal/store"
	"github.com/ginjaninja78/travel-desk/internal/store/gcal"
	"github.com/ginjaninja78/travel-desk/internal/store/memory"
	"github.com/ginjaninja78/travel-desk/internal/store/sqlite"
)

// googleOptions returns the client options for the Google APIs.
func (a *app) googleOptions() []option.ClientOption {
	if a.cfg.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(a.cfg.CredentialsFile)}
}

// openSource opens the configured feed.
func (a *app) openSource(ctx context.Context) (source.Source, error) {
	sc := a.cfg.Source

	var (
		src source.Source
		err error
	)
	switch sc.Type {
	case config.SourceXLSX:
		src, err = source.OpenXLSX(sc.Path, sc.Sheet, *sc.HeaderRows)
	case config.SourceCSV:
		src, err = source.OpenCSV(sc.Path, sc.CSVDelimiter, *sc.HeaderRows)
	case config.SourceGSheets:
		src, err = gsheets.New(ctx, sc.SpreadsheetID, sc.Sheet, *sc.HeaderRows, a.googleOptions()...)
	default:
		return nil, fmt.Errorf("unknown source type %q", sc.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", sc.Type, err)
	}
	return src, nil
}

// sourceName describes the configured feed for reports.
func (a *app) sourceName() string {
	if a.cfg.Source.Type == config.SourceGSheets {
		return "gsheets:" + a.cfg.Source.SpreadsheetID
	}
	return a.cfg.Source.Type + ":" + a.cfg.Source.Path
}

// storeName describes the configured store for reports.
func (a *app) storeName() string {
	switch a.cfg.Store.Type {
	case config.StoreGCal:
		return "gcal:" + a.cfg.Store.CalendarID
	case config.StoreSQLite:
		return "sqlite:" + a.cfg.Store.Path
	}
	return a.cfg.Store.Type
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore opens the configured event store. The closer is never nil.
func (a *app) openStore(ctx context.Context) (store.Store, io.Closer, error) {
	sc := a.cfg.Store

	switch sc.Type {
	case config.StoreSQLite:
		s, err := sqlite.New(sc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, s, nil
	case config.StoreGCal:
		s, err := gcal.New(ctx, sc.CalendarID, a.location, a.googleOptions()...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open calendar store: %w", err)
		}
		return s, nopCloser{}, nil
	case config.StoreMemory:
		return memory.New(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store type %q", sc.Type)
}
