package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/samples"
)

// SubjectsCmd lists subjects. Against Prometheus it asks for the values of
// the subject label instead of loading samples.
type SubjectsCmd struct {
	SourceFlags
}

func (s *SubjectsCmd) Run(ctx *Context) error {
	subjects, err := s.subjects(ctx)
	if err != nil {
		return err
	}
	out := ctx.stdout()
	for _, id := range subjects {
		fmt.Fprintln(out, id)
	}
	return nil
}

func (s *SubjectsCmd) subjects(ctx *Context) ([]string, error) {
	if s.File != "" {
		loaded, err := load(ctx, samples.FileSource{Path: s.File, Logger: ctx.logger()})
		if err != nil {
			return nil, err
		}
		return charts.Subjects(loaded), nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	label := s.SubjectLabel
	if label == "" {
		label = samples.DefaultSubjectLabel
	}
	end := time.Now()
	values, warnings, err := client.LabelValues(context.Background(), label, end.Add(-s.Range), end, ctx.Timeout)
	if err != nil {
		return nil, fmt.Errorf("listing %s values: %w", label, err)
	}
	for _, w := range warnings {
		ctx.logger().Warn("prometheus warning", "warning", w)
	}
	charts.SortSubjects(values)
	return values, nil
}
