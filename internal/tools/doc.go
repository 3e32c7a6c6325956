// Package tools serves the fixture helpers over the Model Context Protocol.
//
// Every tool goes through the same execution dispatcher as the CLI, so tools
// work against local, container and Pantheon sites alike. List-valued
// arguments (args, options, roles) must be JSON arrays; anything else is
// rejected before a command is composed. Tool failures are reported as error
// results rather than protocol errors.
package tools
