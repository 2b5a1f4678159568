//go:build !integration

package postgres

import "context"

// startContainer is only available with the integration build tag.
func startContainer(ctx context.Context) (string, func(), error) {
	return "", func() {}, nil
}
