// Package session models the client-held workflow state.
//
// The server keeps no state between requests: everything a handler needs to
// know about an in-progress deployment travels in a single cookie, decoded
// at the top of each request and re-encoded into the response. The token
// carries no signature, so a client can forge its contents; handlers treat
// it as claims, not facts.
package session

// LoginState holds the bearer credentials for the two providers.
// Either may be empty (not logged in).
type LoginState struct {
	GitHubToken  string `json:"github_token,omitempty"`
	ComputeToken string `json:"compute_token,omitempty"`
}

// DeploymentState tracks the user's progress through the deploy workflow.
type DeploymentState struct {
	// Source is the NWO of the template repository being deployed.
	Source string `json:"source,omitempty"`

	// Dest is the NWO of the fork generated from Source. It is only
	// meaningful together with the Source it was recorded for.
	Dest string `json:"dest,omitempty"`

	// ServiceID and Domain identify the provisioned compute service.
	ServiceID string `json:"service_id,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// State is the full per-client session, reconstructed on every request.
type State struct {
	Login      LoginState      `json:"login,omitempty"`
	Deployment DeploymentState `json:"deployment,omitempty"`

	// ReturnTo is the wizard path the user should land on after an
	// OAuth round trip.
	ReturnTo string `json:"return_to,omitempty"`
}

// ResolvedDest returns the fork destination for the given source, or ""
// when no fork was recorded for exactly that source. A fork made from a
// different template must not be reused.
func (d DeploymentState) ResolvedDest(src string) string {
	if d.Source != src {
		return ""
	}
	return d.Dest
}

// SetFork records a fork of src into dest, replacing any previous pairing.
func (d *DeploymentState) SetFork(src, dest string) {
	d.Source = src
	d.Dest = dest
	d.ServiceID = ""
	d.Domain = ""
}

// ResetLogin clears both provider credentials.
func (s *State) ResetLogin() {
	s.Login = LoginState{}
}

// ResetDeployment clears the deployment workflow state.
func (s *State) ResetDeployment() {
	s.Deployment = DeploymentState{}
}
