package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/imamik/quickdeploy/internal/auth"
	"github.com/imamik/quickdeploy/internal/manifest"
	"github.com/imamik/quickdeploy/internal/platform/compute"
	"github.com/imamik/quickdeploy/internal/platform/github"
	"github.com/imamik/quickdeploy/internal/provisioning"
	"github.com/imamik/quickdeploy/internal/session"
)

type indexView struct {
	ButtonNWO string
}

type errorView struct {
	Message string
}

type wizardView struct {
	Repo        *github.Repository
	Source      string
	Dest        string
	GitHubUser  *github.User
	ComputeUser *compute.User
	Spec        *manifest.Spec
	CanFork     bool
	CanDeploy   bool
}

type successView struct {
	ServiceID  string
	Domain     string
	AppURL     string
	ActionsURL string
}

// renderError writes the error page with the error's message verbatim.
func (s *Server) renderError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = s.pages.render(w, "error", errorView{Message: err.Error()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexView{}
	if nwo := r.URL.Query().Get("repository"); strings.Count(nwo, "/") == 1 {
		view.ButtonNWO = nwo
	}
	_ = s.pages.render(w, "index", view)
}

func (s *Server) handleStyle(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(styleCSS)
}

// handleWizard renders the deploy page for a template repository. The
// lookup is anonymous so the page works before any login; what the user may
// do next is derived from the resolved identities and the fork state.
func (s *Server) handleWizard(w http.ResponseWriter, r *http.Request) {
	state := s.codec.Read(r)
	src := r.PathValue("owner") + "/" + r.PathValue("repo")

	identity, err := s.auth.Resolve(r.Context(), state.Login)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	repo, err := s.github("").FetchRepository(r.Context(), src)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}
	if repo == nil {
		s.renderError(w, http.StatusNotFound, fmt.Errorf("repository %s not found", src))
		return
	}
	if !repo.IsTemplate {
		s.renderError(w, http.StatusBadRequest, github.ErrNotTemplate)
		return
	}

	view := wizardView{
		Repo:        repo,
		Source:      src,
		Dest:        state.Deployment.ResolvedDest(src),
		GitHubUser:  identity.GitHub,
		ComputeUser: identity.Compute,
	}
	view.CanFork = identity.GitHub != nil && view.Dest == ""
	view.CanDeploy = identity.GitHub != nil && identity.Compute != nil && view.Dest != ""

	// Spec preview for the deploy form. Failures here only lose the
	// preview; the deploy handler re-reads and re-validates.
	if view.CanDeploy {
		gh := s.github(state.Login.GitHubToken)
		if specFile, err := gh.GetFile(r.Context(), view.Dest, s.cfg.Deploy.SpecFile); err == nil && specFile != nil {
			if spec, err := manifest.ParseSpec(specFile.Content); err == nil {
				view.Spec = &spec
			}
		}
	}

	state.ReturnTo = r.URL.Path
	s.codec.Write(w, state)
	_ = s.pages.render(w, "deploy", view)
}

// handleFork generates the user's copy of the template repository and
// records the source/destination pairing in the session.
func (s *Server) handleFork(w http.ResponseWriter, r *http.Request) {
	state := s.codec.Read(r)
	src := r.FormValue("source")

	if state.Login.GitHubToken == "" {
		s.renderError(w, http.StatusUnauthorized, auth.ErrNotAuthenticated)
		return
	}

	gh := s.github(state.Login.GitHubToken)

	repo, err := gh.FetchRepository(r.Context(), src)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}
	if repo == nil {
		s.renderError(w, http.StatusNotFound, fmt.Errorf("repository %s not found", src))
		return
	}
	if !repo.IsTemplate {
		s.renderError(w, http.StatusBadRequest, github.ErrNotTemplate)
		return
	}

	fork, err := gh.GenerateFromTemplate(r.Context(), src, repo.Name)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	state.Deployment.SetFork(src, fork.NWO())
	s.codec.Write(w, state)
	http.Redirect(w, r, "/"+src, http.StatusFound)
}

// handleDeploy assembles the pipeline input from the session, the form and
// the fork's files, then runs the full provisioning pipeline.
func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	state := s.codec.Read(r)
	src := r.FormValue("source")

	identity, err := s.auth.Resolve(r.Context(), state.Login)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}
	if identity.GitHub == nil || identity.Compute == nil {
		s.renderError(w, http.StatusUnauthorized, auth.ErrNotAuthenticated)
		return
	}

	dest := state.Deployment.ResolvedDest(src)
	if dest == "" {
		s.renderError(w, http.StatusBadRequest, &provisioning.PreconditionError{Missing: "forked repository"})
		return
	}

	gh := s.github(state.Login.GitHubToken)

	rawManifest, err := gh.GetFile(r.Context(), dest, s.cfg.Deploy.ManifestFile)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}
	if rawManifest == nil {
		s.renderError(w, http.StatusBadRequest, fmt.Errorf("%s not found in %s", s.cfg.Deploy.ManifestFile, dest))
		return
	}

	specFile, err := gh.GetFile(r.Context(), dest, s.cfg.Deploy.SpecFile)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}
	if specFile == nil {
		s.renderError(w, http.StatusBadRequest, fmt.Errorf("%s not found in %s", s.cfg.Deploy.SpecFile, dest))
		return
	}

	spec, err := manifest.ParseSpec(specFile.Content)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	input := provisioning.Input{
		Repo:         dest,
		RawManifest:  rawManifest,
		Spec:         spec,
		Overrides:    collectOverrides(r),
		ComputeToken: state.Login.ComputeToken,
		DomainSuffix: s.cfg.Deploy.DomainSuffix,
		SecretName:   s.cfg.Deploy.SecretName,
		WorkflowFile: s.cfg.Deploy.WorkflowFile,
	}

	pctx := provisioning.NewContext(r.Context(), gh, s.compute(state.Login.ComputeToken), input)
	created, err := provisioning.Deploy(pctx)
	if err != nil {
		s.codec.Write(w, state)
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	state.Deployment.ServiceID = created.ID
	state.Deployment.Domain = created.Domain
	s.codec.Write(w, state)

	_ = s.pages.render(w, "success", successView{
		ServiceID:  created.ID,
		Domain:     created.Domain,
		AppURL:     "https://" + created.Domain,
		ActionsURL: "https://github.com/" + dest + "/actions",
	})
}

// collectOverrides extracts the dictionary value overrides from the deploy
// form. Fields are named "dict.<dictionary>.<key>"; the pipeline keys its
// override map "<dictionary>.<key>".
func collectOverrides(r *http.Request) map[string]string {
	overrides := make(map[string]string)
	for name, values := range r.Form {
		key, ok := strings.CutPrefix(name, "dict.")
		if !ok || len(values) == 0 || values[0] == "" {
			continue
		}
		overrides[key] = values[0]
	}
	return overrides
}

// handleDeployStatus is one stateless poll of the provisioned service's
// activation. Once active, the deployment state has served its purpose and
// is cleared.
func (s *Server) handleDeployStatus(w http.ResponseWriter, r *http.Request) {
	state := s.codec.Read(r)

	poller := &provisioning.StatusPoller{Compute: s.compute(state.Login.ComputeToken)}
	active, err := poller.IsActive(r.Context(), state.Deployment.ServiceID)
	if err != nil {
		status := http.StatusBadGateway
		var preconditionErr *provisioning.PreconditionError
		if errors.As(err, &preconditionErr) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	if active {
		state.ResetDeployment()
	}
	s.codec.Write(w, state)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"active": active})
}

func (s *Server) handleDeployReset(w http.ResponseWriter, r *http.Request) {
	state := s.codec.Read(r)
	state.ResetDeployment()
	s.codec.Write(w, state)
	http.Redirect(w, r, returnTo(state), http.StatusFound)
}

func (s *Server) handleAuthReset(w http.ResponseWriter, r *http.Request) {
	state := s.codec.Read(r)
	state.ResetLogin()
	s.codec.Write(w, state)
	http.Redirect(w, r, returnTo(state), http.StatusFound)
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	provider := auth.Provider(r.PathValue("provider"))

	url, err := s.auth.BeginAuthorizeFlow(provider)
	if err != nil {
		s.renderError(w, http.StatusNotFound, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// handleCallback finishes an OAuth round trip. It is the only handler that
// writes login credentials into the session.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider := auth.Provider(r.PathValue("provider"))

	code := r.URL.Query().Get("code")
	if code == "" {
		s.renderError(w, http.StatusBadRequest, errors.New("No auth 'code' param provided"))
		return
	}

	token, err := s.auth.CompleteAuthorizeFlow(r.Context(), provider, code)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrUnknownProvider) {
			status = http.StatusNotFound
		}
		s.renderError(w, status, err)
		return
	}

	state := s.codec.Read(r)
	switch provider {
	case auth.ProviderGitHub:
		state.Login.GitHubToken = token
	case auth.ProviderCompute:
		state.Login.ComputeToken = token
	}
	s.codec.Write(w, state)
	http.Redirect(w, r, returnTo(state), http.StatusFound)
}

func returnTo(state session.State) string {
	if state.ReturnTo != "" {
		return state.ReturnTo
	}
	return "/"
}
