package effective

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// defaultsFile is the YAML shape of a default tag set template file.
type defaultsFile struct {
	TagSets []defaultsFileSet `yaml:"tagSets"`
}

type defaultsFileSet struct {
	Name        string                `yaml:"name"`
	Tags        []model.TagDefinition `yaml:"tags"`
	EntityTypes []string              `yaml:"entityTypes"`
	Active      *bool                 `yaml:"active"`
	Required    bool                  `yaml:"required"`
	SortOrder   int                   `yaml:"sortOrder"`
}

// LoadDefaultsFile parses a YAML template file and upserts its default tag
// sets by name. Returns the number of sets written.
func LoadDefaultsFile(ctx context.Context, st store.ConfigStore, log *zap.Logger, path string) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read defaults file: %w", err)
	}

	var file defaultsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, errs.Validation("parse defaults file %s: %v", path, err)
	}
	if len(file.TagSets) == 0 {
		return 0, errs.Validation("defaults file %s defines no tag sets", path)
	}
	for _, set := range file.TagSets {
		if set.Name == "" {
			return 0, errs.Validation("defaults file %s: tag set without a name", path)
		}
		for _, def := range set.Tags {
			if def.Name == "" {
				return 0, errs.Validation("tag set %q: tag without a name", set.Name)
			}
			if !def.Category.Valid() {
				return 0, errs.Validation("tag set %q: unknown category %q", set.Name, def.Category)
			}
		}
	}

	var written int
	err = st.Transaction(func(tx store.ConfigStore) error {
		for _, set := range file.TagSets {
			active := true
			if set.Active != nil {
				active = *set.Active
			}
			row := &model.DefaultTagSet{
				ID:             uuid.NewString(),
				Name:           set.Name,
				TagDefinitions: set.Tags,
				EntityTypes:    set.EntityTypes,
				IsActive:       active,
				IsRequired:     set.Required,
				SortOrder:      set.SortOrder,
			}
			if err := tx.UpsertDefaultTagSet(ctx, row); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("default tag sets loaded",
		zap.String("path", path),
		zap.Int("sets", written))
	return written, nil
}
