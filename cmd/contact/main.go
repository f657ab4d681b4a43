package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-portfolio-backend/pkg/contactform"
	"go-portfolio-backend/pkg/logger"
)

const (
	exitOK          = 0
	exitSendFailed  = 1
	exitUsage       = 2
	exitInvalidForm = 3
)

func main() {
	baseURL := flag.String("url", envOr("CONTACT_API_URL", "http://localhost:8080"), "base URL of the portfolio backend")
	name := flag.String("name", "", "your name")
	email := flag.String("email", "", "your email address")
	message := flag.String("message", "", "message body")
	projectType := flag.String("project", "", "project type: "+strings.Join(contactform.ProjectTypes, ", "))
	urgency := flag.String("urgency", string(contactform.UrgencyNormal), "low, normal or high")
	timeout := flag.Duration("timeout", contactform.DefaultTimeout, "give up after this long")
	debug := flag.Bool("debug", false, "log request details")
	flag.Parse()

	logger.Init(*debug)

	form := contactform.New(
		contactform.NewHTTPTransport(*baseURL, nil),
		contactform.WithTimeout(*timeout),
		contactform.WithNotifier(contactform.NotifierFunc(printNotice)),
	)

	fields := []struct {
		field contactform.Field
		value string
	}{
		{contactform.FieldName, *name},
		{contactform.FieldEmail, *email},
		{contactform.FieldMessage, *message},
		{contactform.FieldProjectType, *projectType},
		{contactform.FieldUrgency, *urgency},
	}
	for _, f := range fields {
		if err := form.UpdateField(f.field, f.value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err := form.Submit(ctx)
	logger.Log.Debug("contact submission finished", "url", *baseURL, "status", form.Status(), "duration", time.Since(start))

	switch {
	case err == nil:
		os.Exit(exitOK)
	case errors.Is(err, contactform.ErrInvalidForm):
		for _, field := range contactform.RequiredFields {
			if msg, ok := form.Errors()[field]; ok {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
		}
		os.Exit(exitInvalidForm)
	default:
		os.Exit(exitSendFailed)
	}
}

func printNotice(_ context.Context, n contactform.Notice) {
	if n.Status == contactform.StatusError {
		fmt.Fprintln(os.Stderr, n.Message)
		logger.Log.Debug("contact relay error", "error", n.Err)
		return
	}
	fmt.Println(n.Message)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
