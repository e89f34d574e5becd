package main

import (
	"context"
	"github.com/myrjola/agrolens/internal/e2etest"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/logging"
	"log/slog"
	"net/url"
	"os"
	"time"
)

func TestFrontPage(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get front page")
	}
	if doc.Find("form[action='/detect']").Length() != 1 {
		return errors.New("upload form not found on front page")
	}
	if doc.Find("select[name=language]").Length() != 1 {
		return errors.New("language selector not found on front page")
	}
	return nil
}

func TestLanguageSwitch(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.SubmitForm(ctx, "/", "/language", url.Values{"language": {"te"}})
	if err != nil {
		return errors.Wrap(err, "submit language form")
	}
	if doc.Find("option[value=te][selected]").Length() != 1 {
		return errors.New("language did not switch to Telugu")
	}
	// Switch back so repeated smoke tests start from a known state.
	if _, err = client.SubmitForm(ctx, "/", "/language", url.Values{"language": {"en"}}); err != nil {
		return errors.Wrap(err, "reset language")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestFrontPage(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing front page", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestLanguageSwitch(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing language switch", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
