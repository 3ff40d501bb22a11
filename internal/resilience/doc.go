// Package resilience groups the fault-tolerance helpers around the remote
// summarizers and the database: circuitbreaker trips on sustained failures and
// retry backs off between attempts at transient ones.
//
//	out, err := circuitbreaker.Run(cb, func() (string, error) { return provider.Call(ctx) })
//	err := retry.WithBackoff(ctx, retry.ProviderConfig(), func() error { ... })
package resilience
