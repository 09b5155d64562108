package collect

import (
	"context"

	"github.com/sirupsen/logrus"

	"corp-intel/backend/internal/intel"
)

// Target identifies the subject of an analysis run.
type Target struct {
	Name  string `json:"name"`
	Type  string `json:"type"` // "company" or "person"
	State string `json:"state,omitempty"`
}

// IsCompany reports whether the target should be screened as a company.
// Anything other than an explicit person is treated as a company.
func (t Target) IsCompany() bool {
	return t.Type != "person"
}

// Service bundles the provider collectors. Any client may be nil, in which
// case its source simply contributes nothing to the bundle.
type Service struct {
	Sanctions *SanctionsClient
	News      *NewsClient
	Courts    *CourtsClient
	FEC       *FECClient
	Registry  *RegistryClient
}

// Gather runs every configured collector for the target and assembles the
// provider bundle. A failing provider degrades to its zero value and is
// recorded in SourceErrors; it never aborts the run.
func (s *Service) Gather(ctx context.Context, target Target) intel.ProviderBundle {
	bundle := intel.ProviderBundle{SourceErrors: make(map[string]string)}

	if s.News != nil {
		items, err := s.News.Search(ctx, target.Name)
		if err != nil {
			logrus.WithError(err).WithField("target", target.Name).Warn("news collector failed")
			bundle.SourceErrors["news"] = err.Error()
		} else {
			bundle.News = items
		}
	}

	if s.Courts != nil {
		records, err := s.Courts.Search(ctx, target.Name)
		if err != nil {
			logrus.WithError(err).WithField("target", target.Name).Warn("court records collector failed")
			bundle.SourceErrors["court_records"] = err.Error()
		} else {
			bundle.Litigation = records
		}
	}

	if s.FEC != nil {
		var summary intel.DonationSummary
		var err error
		if target.IsCompany() {
			summary, err = s.FEC.SearchByEmployer(ctx, target.Name)
		} else {
			summary, err = s.FEC.SearchByDonor(ctx, target.Name, target.State)
		}
		if err != nil {
			logrus.WithError(err).WithField("target", target.Name).Warn("fec collector failed")
			bundle.SourceErrors["fec_donations"] = err.Error()
		} else {
			bundle.Donations = summary
		}
	}

	// Registry lookups are company-only; person filings need a company
	// affiliation to resolve.
	if s.Registry != nil && target.IsCompany() {
		profile, err := s.Registry.Lookup(ctx, target.Name)
		if err != nil {
			logrus.WithError(err).WithField("target", target.Name).Warn("registry collector failed")
			bundle.SourceErrors["registry"] = err.Error()
		} else {
			bundle.Registry = profile
		}
	}

	if s.Sanctions != nil {
		result, err := s.Sanctions.Match(ctx, target.Name, target.IsCompany())
		if err != nil {
			logrus.WithError(err).WithField("target", target.Name).Warn("sanctions collector failed")
			bundle.SourceErrors["sanctions"] = err.Error()
		} else {
			bundle.Sanctions = result
		}
	}

	if len(bundle.SourceErrors) == 0 {
		bundle.SourceErrors = nil
	}
	return bundle
}
