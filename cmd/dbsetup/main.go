// Command dbsetup performs first-run initialization: it runs the schema
// migrations and seeds the privileged bootstrap user if no such account
// exists yet.
package main

import (
	"context"
	"log"

	"github.com/gaurav630/userhub/internal/app"
	"github.com/gaurav630/userhub/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	if err := a.Bootstrap(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
