/*
Package cors implements policy evaluation for
[Cross-Origin Resource Sharing (CORS)].

Contrary to most CORS packages, this one decouples the decision logic from
the HTTP plumbing around it. The core of the package is a pair of types with
no opinion about routing or middleware pipelines:

  - [Policy]: an immutable set of matching rules (origins, methods, headers,
    credentials, max-age), built once from a [PolicyConfig] and then
    evaluated by any number of in-flight requests;
  - [Service]: a stateless evaluator whose [Service.Evaluate] method
    classifies a request (simple vs. [CORS-preflight]) and matches it
    against a policy, producing a [Result] that its [Service.Apply] method
    then writes onto a response.

Hosts that just want ready-made [net/http] glue can use [Middleware], which
runs Evaluate and Apply for each request and terminates preflight requests;
hosts with their own pipeline call the Service directly and decide for
themselves what a failed preflight or an untouched response should look
like.

Two subpackages round out the module:
[github.com/policyware/cors/matchers] provides origin-matching strategies
(wildcard subdomains, wildcard ports) pluggable via
[PolicyConfig.OriginMatcher], and
[github.com/policyware/cors/policyfile] loads named policies from a YAML
file into a [Registry] and hot-reloads them on change.

Policy construction performs extensive validation in order to prevent you
from inadvertently creating dysfunctional CORS policies; package
[github.com/policyware/cors/cfgerrors] allows programmatic handling of the
resulting errors.

[CORS-preflight]: https://developer.mozilla.org/en-US/docs/Glossary/Preflight_request
[Cross-Origin Resource Sharing (CORS)]: https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
*/
package cors
