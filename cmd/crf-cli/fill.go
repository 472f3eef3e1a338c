package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	crf "github.com/goliatone/go-crf"
	"github.com/goliatone/go-crf/pkg/instance"
	"github.com/goliatone/go-crf/pkg/table"
	"github.com/goliatone/go-crf/pkg/template"
	"github.com/goliatone/go-crf/pkg/widgets"
)

var errAborted = errors.New("aborted")

type fillSession struct {
	engine   *crf.Engine
	instance *crf.Instance
}

func (s *fillSession) run(ctx context.Context) error {
	tpl := s.instance.Template()
	for _, section := range tpl.Sections {
		fmt.Printf("\n== %s ==\n", section.Title)
		for _, field := range section.Fields {
			if err := s.fillField(ctx, section.ID, field); err != nil {
				if errors.Is(err, errAborted) {
					return err
				}
				fmt.Printf("  %s: %v\n", field.Label, err)
			}
		}
	}
	return nil
}

func (s *fillSession) fillField(ctx context.Context, sectionID string, field template.Field) error {
	capability := s.engine.Describe(field)
	if capability.ReadOnly {
		return nil
	}
	key := template.FieldKey(sectionID, field.ID)
	current, hadValue := s.instance.Value(key)

	value, err := s.prompt(ctx, field, capability, current)
	if err != nil {
		return err
	}
	if err := s.instance.Edit(key, value); err != nil {
		return err
	}
	pending, err := s.instance.RequestCommit(key)
	if err != nil || !pending {
		return err
	}
	return s.commit(ctx, key, hadValue)
}

// commit closes the pending edit. First entries are committed with a stock
// justification; overwriting previously captured data asks the operator why.
func (s *fillSession) commit(ctx context.Context, key string, hadValue bool) error {
	justification := "initial entry"
	for {
		if hadValue {
			prompt := &survey.Input{Message: "Justification for this change:"}
			if err := survey.AskOne(prompt, &justification, survey.WithValidator(survey.Required)); err != nil {
				return translateErr(err)
			}
		}
		err := s.instance.ProvideJustification(ctx, key, justification)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, instance.ErrEmptyJustification):
			continue
		default:
			return err
		}
	}
}

func (s *fillSession) prompt(ctx context.Context, field template.Field, capability crf.Capability, current any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	message := field.Label
	if field.Required {
		message += " *"
	}

	switch capability.Control {
	case widgets.ControlToggle:
		var out bool
		def, _ := current.(bool)
		err := survey.AskOne(&survey.Confirm{Message: message, Help: field.HelpText, Default: def}, &out)
		return out, translateErr(err)

	case widgets.ControlDropdown, widgets.ControlRadioGroup:
		labels, byLabel := optionPromptValues(capability.Options)
		var picked string
		prompt := &survey.Select{Message: message, Options: labels, Help: field.HelpText}
		if label := labelForValue(capability.Options, trimmedOrEmpty(current)); label != "" {
			prompt.Default = label
		}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return nil, translateErr(err)
		}
		return byLabel[picked], nil

	case widgets.ControlCheckGroup:
		labels, byLabel := optionPromptValues(capability.Options)
		var picked []string
		prompt := &survey.MultiSelect{Message: message, Options: labels, Help: field.HelpText}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return nil, translateErr(err)
		}
		values := make([]string, 0, len(picked))
		for _, label := range picked {
			values = append(values, byLabel[label])
		}
		return values, nil

	case widgets.ControlTextarea:
		var out string
		err := survey.AskOne(&survey.Multiline{Message: message, Help: field.HelpText, Default: trimmedOrEmpty(current)}, &out)
		return out, translateErr(err)

	case widgets.ControlGrid:
		return s.promptGrid(field, current)

	default:
		var out string
		prompt := &survey.Input{Message: message, Help: field.HelpText, Default: trimmedOrEmpty(current)}
		opts := inputValidators(capability.Control)
		err := survey.AskOne(prompt, &out, opts...)
		return out, translateErr(err)
	}
}

// promptGrid walks the table column by column, one row at a time, then
// offers to append further rows when the schema allows it.
func (s *fillSession) promptGrid(field template.Field, current any) (any, error) {
	if field.Table == nil {
		return nil, fmt.Errorf("table field %s has no schema", field.ID)
	}
	var grid table.Grid
	if rows := table.RowsFromValue(current); len(rows) > 0 {
		grid = table.Load(*field.Table, rows)
	} else {
		grid = table.New(*field.Table)
	}

	for idx := 0; idx < len(grid.Rows); idx++ {
		fmt.Printf("  %s, row %d\n", field.Label, idx+1)
		updated, err := s.promptRow(grid, grid.Rows[idx])
		if err != nil {
			return nil, err
		}
		grid = updated

		if idx == len(grid.Rows)-1 && grid.AllowAddRows {
			more := false
			if err := survey.AskOne(&survey.Confirm{Message: "Add another row?"}, &more); err != nil {
				return nil, translateErr(err)
			}
			if more {
				grid, _ = grid.AddRow()
			}
		}
	}
	return grid.Rows, nil
}

func (s *fillSession) promptRow(grid table.Grid, row table.Row) (table.Grid, error) {
	for _, column := range grid.Columns {
		message := column.Label
		if column.Required {
			message += " *"
		}
		switch column.Type {
		case template.ColumnCheckbox:
			var out bool
			def, _ := row.Cells[column.ID].(bool)
			if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
				return grid, translateErr(err)
			}
			grid = grid.SetCell(row.ID, column.ID, out)
		case template.ColumnSelect:
			labels, byLabel := optionPromptValues(column.Options)
			var picked string
			if err := survey.AskOne(&survey.Select{Message: message, Options: labels}, &picked); err != nil {
				return grid, translateErr(err)
			}
			grid = grid.SetCell(row.ID, column.ID, byLabel[picked])
		default:
			var out string
			def := trimmedOrEmpty(row.Cells[column.ID])
			if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out); err != nil {
				return grid, translateErr(err)
			}
			grid = grid.SetCell(row.ID, column.ID, out)
		}
	}
	return grid, nil
}

func inputValidators(control string) []survey.AskOpt {
	switch control {
	case widgets.ControlNumberInput:
		return []survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
			raw, _ := ans.(string)
			if raw == "" {
				return nil
			}
			if widgets.FilterNumeric(raw) != raw {
				return errors.New("enter a number")
			}
			return nil
		})}
	case widgets.ControlDatePicker:
		return []survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
			raw, _ := ans.(string)
			if raw == "" || widgets.ValidDate(raw) {
				return nil
			}
			return errors.New("enter a date as YYYY-MM-DD")
		})}
	case widgets.ControlTimePicker:
		return []survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
			raw, _ := ans.(string)
			if raw == "" || widgets.ValidTime(raw) {
				return nil
			}
			return errors.New("enter a time as HH:MM")
		})}
	default:
		return nil
	}
}

func optionPromptValues(options []template.Option) ([]string, map[string]string) {
	labels := make([]string, 0, len(options))
	byLabel := make(map[string]string, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
		byLabel[option.Label] = option.Value
	}
	return labels, byLabel
}

func labelForValue(options []template.Option, value string) string {
	for _, option := range options {
		if option.Value == value {
			return option.Label
		}
	}
	return ""
}

func translateErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
