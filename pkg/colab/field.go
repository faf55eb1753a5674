package colab

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// FieldKind identifies the widget behind a form field.
type FieldKind string

const (
	FieldInput    FieldKind = "input"
	FieldCheckbox FieldKind = "checkbox"
	FieldSelect   FieldKind = "select"
	FieldDropdown FieldKind = "dropdown"
)

// Field is a form widget inside a cell. Values are exchanged as text; a
// checkbox uses "true" and "false".
type Field interface {
	Name() (string, error)
	Kind() FieldKind
	Value() (string, error)
	SetValue(ctx context.Context, value string) error
	String() string
}

// OptionField is a field restricted to a list of options.
type OptionField interface {
	Field
	Options() ([]string, error)
}

// fieldKind classifies a form element from its tag and its children.
func fieldKind(loc playwright.Locator) (FieldKind, error) {
	tag, err := tagName(loc)
	if err != nil {
		return "", err
	}

	switch tag {
	case tagFormInput:
		if ok, err := exists(loc.Locator(selPaperInput)); err != nil || ok {
			return FieldInput, err
		}
		input := loc.Locator(selInput)
		if ok, err := exists(input); err != nil {
			return "", err
		} else if ok {
			typ, err := input.First().GetAttribute(attrType)
			if err != nil {
				return "", err
			}
			if typ == inputTypeCheckbox {
				return FieldCheckbox, nil
			}
		}
	case tagFormDropdown:
		if ok, err := exists(loc.Locator(selSelect)); err != nil || ok {
			return FieldSelect, err
		}
		if ok, err := exists(loc.Locator(selPaperInput)); err != nil || ok {
			return FieldDropdown, err
		}
	}
	return "", fmt.Errorf("%w %s", ErrUnrecognisedField, tag)
}

func newField(cell *Cell, loc playwright.Locator) (Field, error) {
	kind, err := fieldKind(loc)
	if err != nil {
		return nil, err
	}

	base := baseField{cell: cell, loc: loc, kind: kind}
	switch kind {
	case FieldInput:
		return &InputField{base}, nil
	case FieldCheckbox:
		return &CheckboxField{base}, nil
	case FieldSelect:
		return &SelectField{base}, nil
	default:
		return &DropdownField{base}, nil
	}
}

// trimFieldName drops the colon the form renders after a label.
func trimFieldName(label string) string {
	return strings.TrimSuffix(label, ":")
}

type baseField struct {
	cell *Cell
	loc  playwright.Locator
	kind FieldKind
}

// Name returns the field's label.
func (f *baseField) Name() (string, error) {
	label, err := f.loc.Locator(selFieldName).First().InnerText()
	if err != nil {
		return "", fmt.Errorf("failed to read field name: %w", err)
	}
	return trimFieldName(label), nil
}

func (f *baseField) Kind() FieldKind {
	return f.kind
}

func (f *baseField) input() playwright.Locator {
	return f.loc.Locator(selInput).First()
}

func formatField(f Field) string {
	name, err := f.Name()
	if err != nil {
		name = "?"
	}
	value, err := f.Value()
	if err != nil {
		value = "<" + err.Error() + ">"
	}
	return name + ": " + value
}

// InputField is a free text field.
type InputField struct {
	baseField
}

func (f *InputField) Value() (string, error) {
	return f.input().InputValue()
}

func (f *InputField) SetValue(_ context.Context, value string) error {
	input := f.input()
	if err := input.Clear(); err != nil {
		return fmt.Errorf("failed to clear field: %w", err)
	}
	return input.PressSequentially(value)
}

func (f *InputField) String() string {
	return formatField(f)
}

// CheckboxField is a boolean field.
type CheckboxField struct {
	baseField
}

// Checked reports the checkbox state.
func (f *CheckboxField) Checked() (bool, error) {
	return f.input().IsChecked()
}

// SetChecked clicks the checkbox when its state differs from checked.
func (f *CheckboxField) SetChecked(checked bool) error {
	current, err := f.Checked()
	if err != nil {
		return err
	}
	if current == checked {
		return nil
	}
	return f.input().Click()
}

func (f *CheckboxField) Value() (string, error) {
	checked, err := f.Checked()
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(checked), nil
}

func (f *CheckboxField) SetValue(_ context.Context, value string) error {
	checked, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("checkbox value %q: %w", value, err)
	}
	return f.SetChecked(checked)
}

func (f *CheckboxField) String() string {
	return formatField(f)
}

// SelectField is a dropdown backed by a native select element.
type SelectField struct {
	baseField
}

// Options returns the text of every option.
func (f *SelectField) Options() ([]string, error) {
	return f.loc.Locator(selSelect).First().Locator(selOption).AllInnerTexts()
}

func (f *SelectField) Value() (string, error) {
	return f.loc.Locator(selSelect).First().InputValue()
}

func (f *SelectField) SetValue(_ context.Context, value string) error {
	options, err := f.Options()
	if err != nil {
		return err
	}
	if !contains(options, value) {
		return fmt.Errorf("%w: %s", ErrNotAnOption, value)
	}
	_, err = f.loc.Locator(selSelect).First().SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{value},
	})
	return err
}

func (f *SelectField) String() string {
	return formatField(f)
}

// DropdownField is an editable dropdown with a list of suggested items.
type DropdownField struct {
	baseField
}

// Options returns the value of every item in the list.
func (f *DropdownField) Options() ([]string, error) {
	items, err := f.loc.Locator(selPaperItem).All()
	if err != nil {
		return nil, err
	}
	options := make([]string, 0, len(items))
	for _, item := range items {
		v, err := item.GetAttribute(attrValue)
		if err != nil {
			return nil, err
		}
		options = append(options, v)
	}
	return options, nil
}

func (f *DropdownField) Value() (string, error) {
	return f.input().InputValue()
}

// SetValue opens the list, waits for the matching item to be enabled and
// types the value into the input.
func (f *DropdownField) SetValue(ctx context.Context, value string) error {
	if err := f.loc.Locator(selPaperIconBtn).First().Click(); err != nil {
		return fmt.Errorf("failed to open dropdown: %w", err)
	}

	items, err := f.loc.Locator(selPaperItem).All()
	if err != nil {
		return err
	}
	for _, item := range items {
		v, err := item.GetAttribute(attrValue)
		if err != nil {
			return err
		}
		if v != value {
			continue
		}

		opts := f.cell.notebook.opts
		err = waitUntil(ctx, opts.DialogTimeout, opts.PollInterval, func() (bool, error) {
			disabled, err := item.GetAttribute(attrAriaDisabled)
			return disabled != "true", err
		})
		if err != nil {
			return fmt.Errorf("option %q never became enabled: %w", value, err)
		}

		input := f.input()
		if err := input.Clear(); err != nil {
			return fmt.Errorf("failed to clear field: %w", err)
		}
		return input.PressSequentially(value)
	}
	return fmt.Errorf("%w: %s", ErrNotAnOption, value)
}

func (f *DropdownField) String() string {
	return formatField(f)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
