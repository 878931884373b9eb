package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	domainRepos "github.com/rios0rios0/cdlist/internal/domain/repositories"
	cdRepo "github.com/rios0rios0/cdlist/internal/infrastructure/repositories/clearlydefined"
	ghRepo "github.com/rios0rios0/cdlist/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/cdlist/internal/infrastructure/repositories/gitlab"
	navRepo "github.com/rios0rios0/cdlist/internal/infrastructure/repositories/navigation"
	s3Repo "github.com/rios0rios0/cdlist/internal/infrastructure/repositories/s3"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register bundle registry with all bundle store factories
	if err := container.Provide(func(settings *entities.Settings) *BundleRegistry {
		reg := NewBundleRegistry(settings)
		reg.Register(entities.BundleProviderGitHub, ghRepo.NewGistBundleRepository)
		reg.Register(entities.BundleProviderGitLab, glRepo.NewSnippetBundleRepository)
		reg.Register(entities.BundleProviderS3, s3Repo.NewS3BundleRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register the metadata API client, built lazily so it sees the loaded settings
	if err := container.Provide(func(settings *entities.Settings) domainRepos.MetadataRepository {
		return NewLazyMetadataRepository(func() domainRepos.MetadataRepository {
			return cdRepo.NewClient(settings)
		})
	}); err != nil {
		return err
	}

	if err := container.Provide(navRepo.NewRecordingNavigator); err != nil {
		return err
	}
	if err := container.Provide(func(impl *navRepo.RecordingNavigator) domainRepos.Navigator {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
