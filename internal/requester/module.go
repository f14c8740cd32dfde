package requester

import (
	"go.uber.org/fx"
)

// Module provides the requester module dependencies. The authenticator
// constructor validates credentials, so a misconfigured auth section fails
// the application at startup rather than on the first call.
var Module = fx.Options(
	fx.Provide(
		NewHTTPRequester,
		fx.Annotate(
			NewEndpointAuthenticator,
			fx.As(new(Authenticator)),
		),
	),
)
