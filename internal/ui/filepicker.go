package ui

import (
	"github.com/charmbracelet/huh"
)

// SelectPatterns asks which attribute patterns should route to the driver.
func SelectPatterns(candidates []string) ([]string, error) {
	var selected []string
	var options []huh.Option[string]

	for _, pattern := range candidates {
		options = append(options, huh.NewOption(pattern, pattern))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select files to merge by entries:").
				Options(options...).
				Value(&selected),
		),
	)

	err := form.Run()
	if err != nil {
		return nil, err
	}

	return selected, nil
}

func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	).Run()
	return ok, err
}
