package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/denylist"
	"github.com/serroba/shortly/internal/redirect"
	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/stats"
	"github.com/serroba/shortly/internal/submission"
	"github.com/serroba/shortly/internal/token"
	"go.uber.org/zap"
)

// SubmissionPackage provides the token signer, the submission pipeline and
// the redirect resolver. The signer fails to build without a secret.
func SubmissionPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*token.Signer, error) {
		return token.NewSigner(do.MustInvoke[*Options](i).Secret)
	})

	do.Provide(i, func(i *do.Injector) (*submission.Pipeline, error) {
		allocator := do.MustInvoke[*shortener.Allocator](i)

		return submission.NewPipeline(
			allocator,
			do.MustInvoke[*token.Signer](i),
			denylist.NewGate(do.MustInvoke[denylist.Lookup](i)),
			do.MustInvoke[stats.Recorder](i),
			do.MustInvoke[*zap.Logger](i).Named("submission"),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*redirect.Resolver, error) {
		return redirect.NewResolver(
			do.MustInvoke[*shortener.Allocator](i),
			do.MustInvoke[stats.Recorder](i),
			do.MustInvoke[*zap.Logger](i).Named("redirect"),
		), nil
	})
}
