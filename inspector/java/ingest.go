package java

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/viant/classmodel/inspector/classfile"
	"github.com/viant/classmodel/inspector/info"
	"github.com/viant/classmodel/inspector/repository"
	"golang.org/x/sync/errgroup"
)

// ErrNoInput reports a run without any primary or classpath location
var ErrNoInput = errors.New("no class input: neither sources nor classpath supplied")

// EntryError reports an undecodable class entry, the entry is skipped
type EntryError struct {
	Location string
	Entry    string
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Input represents ingested class records, both lists are ordered and deduplicated by class name
type Input struct {
	Primary   []*classfile.Class
	Classpath []*classfile.Class
	Skipped   []*EntryError
}

type location struct {
	URL     string
	primary bool
}

type scanned struct {
	classes []*classfile.Class
	skipped []*EntryError
	err     error
	done    chan struct{}
}

// Ingest scans and decodes sources and classpath locations.
// Classpath is promoted to primary when no sources are supplied.
// Local and anonymous classes are not part of the model structure and are left out.
func (i *Inspector) Ingest(ctx context.Context, sources, classpath []string) (*Input, error) {
	if len(sources) == 0 {
		sources, classpath = classpath, nil
	}
	if len(sources) == 0 {
		return nil, ErrNoInput
	}
	var locations []location
	for _, URL := range sources {
		locations = append(locations, location{URL: URL, primary: true})
	}
	for _, URL := range classpath {
		locations = append(locations, location{URL: URL})
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if i.config.Concurrency > 0 {
		group.SetLimit(i.config.Concurrency)
	}
	results := make([]*scanned, len(locations))
	for idx := range locations {
		result := &scanned{done: make(chan struct{})}
		results[idx] = result
		URL := locations[idx].URL
		group.Go(func() error {
			defer close(result.done)
			result.classes, result.skipped, result.err = i.scan(groupCtx, URL)
			return result.err
		})
	}

	input := &Input{}
	seen := make(map[string]bool)
	var err error
	for idx, loc := range locations {
		result := results[idx]
		<-result.done
		if result.err != nil {
			break
		}
		for _, class := range result.classes {
			if seen[class.Name] || class.Enclosed || !info.Accepts(i.filter, QualifiedName(class.Name)) {
				continue
			}
			seen[class.Name] = true
			if loc.primary {
				input.Primary = append(input.Primary, class)
			} else {
				input.Classpath = append(input.Classpath, class)
			}
		}
		input.Skipped = append(input.Skipped, result.skipped...)
		if i.onScan != nil {
			i.onScan(loc.URL, idx+1, len(locations))
		}
		if err = ctx.Err(); err != nil {
			break
		}
	}
	// the first failing scan cancels others, Wait reports it
	if waitErr := group.Wait(); waitErr != nil {
		err = waitErr
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return input, nil
}

func (i *Inspector) scan(ctx context.Context, URL string) ([]*classfile.Class, []*EntryError, error) {
	var classes []*classfile.Class
	var skipped []*EntryError
	err := i.scanner.Scan(ctx, URL, func(entry *repository.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		class, err := classfile.Decode(entry.Data)
		if err != nil {
			entryErr := &EntryError{Location: entry.Location, Entry: entry.URL(), Err: err}
			log.Printf("WARNING: skipping class entry: %v", entryErr)
			skipped = append(skipped, entryErr)
			return nil
		}
		class.Location = entry.URL()
		classes = append(classes, class)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", URL, err)
	}
	return classes, skipped, nil
}
