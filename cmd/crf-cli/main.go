// Command crf-cli fills a form template interactively in the terminal. It
// loads template definitions from a directory, prompts for every field, runs
// the whole-template validation, and writes the captured answers as JSON.
// Pre-existing answers can be loaded to exercise the justification flow.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	crf "github.com/goliatone/go-crf"
)

func main() {
	dir := flag.String("templates", "templates", "directory holding template JSON/YAML files")
	templateID := flag.String("template", "", "template id to fill (lists available ids when empty)")
	caseID := flag.String("case", "case-local", "case identifier for the instance")
	answersPath := flag.String("answers", "", "existing answers JSON to resume from")
	output := flag.String("output", "", "output file for captured answers (stdout if empty)")
	actor := flag.String("actor", "", "name recorded on audit entries")
	flag.Parse()

	ctx := context.Background()

	engine, err := crf.New(
		crf.WithTemplateFS(os.DirFS(*dir)),
		// persistence is out of scope for the CLI; the committed value is
		// already in the instance and lands in the output file
		crf.WithCommitter(crf.CommitterFunc(func(context.Context, string, any, string) error {
			return nil
		})),
	)
	if err != nil {
		log.Fatalf("load templates: %v", err)
	}

	if *templateID == "" {
		ids := engine.TemplateIDs()
		if len(ids) == 0 {
			log.Fatalf("no templates found under %s", *dir)
		}
		fmt.Println("available templates:")
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		return
	}

	persisted, err := loadAnswers(*answersPath)
	if err != nil {
		log.Fatalf("load answers: %v", err)
	}

	var opts []crf.InstanceOption
	if *actor != "" {
		opts = append(opts, crf.WithActor(*actor))
	}
	in, err := engine.Open(*templateID, *caseID, persisted, opts...)
	if err != nil {
		log.Fatalf("open instance: %v", err)
	}

	session := &fillSession{engine: engine, instance: in}
	if err := session.run(ctx); err != nil {
		log.Fatalf("fill form: %v", err)
	}

	if problems := engine.Validate(in); len(problems) > 0 {
		fmt.Fprintln(os.Stderr, "validation problems:")
		for key, message := range problems {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", key, message)
		}
	}

	payload, err := json.MarshalIndent(in.Answers(), "", "  ")
	if err != nil {
		log.Fatalf("encode answers: %v", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("write answers: %v", err)
		}
		fmt.Printf("answers written to %s\n", *output)
	} else {
		fmt.Println(string(payload))
	}

	if audit := in.Audit(); len(audit) > 0 {
		fmt.Printf("%d audit entr%s recorded\n", len(audit), plural(len(audit), "y", "ies"))
	}
}

func loadAnswers(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var answers map[string]any
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return answers, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func trimmedOrEmpty(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}
