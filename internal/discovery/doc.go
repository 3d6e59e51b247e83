// Package discovery finds the tools the control plane associated with a
// gateway.
//
// Two modes exist. PollUntilFound lists tools repeatedly until a required
// capability appears, for gateways whose tools are discovered
// asynchronously after registration. CheckOnce lists tools a single time,
// for gateways whose tools only appear after an operator completed an OAuth
// consent; an empty result there is the normal state and not an error.
//
// Tools are classified by name with a Classifier made of suffix and exact
// match rules:
//
//	c := discovery.Classifier{
//		Required: discovery.QueryRule,
//		Optional: discovery.ListDatabasesRule,
//	}
//	set, err := d.PollUntilFound(ctx, gatewayID, c, 2*time.Minute, 2*time.Second)
package discovery
