package config

import (
	controller "github.com/cogni-dao/cogni-git-admin/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr        string
	MaxBodySize int64
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:3000",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("COGNI_ADDR"),
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum accepted webhook body size in bytes",
			Value:       controller.DefaultMaxBodySize,
			Destination: &c.MaxBodySize,
			Sources:     cli.EnvVars("COGNI_MAX_BODY_SIZE"),
		},
	}
}
