/*
Package fileserver is a small single-process HTTP/1.x static file server.

It listens on a TCP port, reads one request per connection, resolves the
request target to a file under a configured root directory and answers with
a status line, headers and, for GET, the file contents. Only GET and HEAD
are served; any other method gets 501 Not Implemented and malformed
requests get 400 Bad Request. Every connection is closed after one
response.

Quick Start

	fileserver 9080 /var/www 10

or, with flags:

	fileserver -port 9080 -root /var/www -max-threads 10 -log-level debug

Embedding

	ln, _ := netutil.Listen(ctx, ":8080", netutil.Options{})
	server := core.NewServer(ln, pools.NewWorkerPool(10), core.Options{Root: "/var/www"})
	go server.Run()
	...
	server.Stop()

Modules

  - app: application lifecycle (signals, graceful stop, logging setup)
  - config: flags, FILESERVER_* environment and JSON configuration
  - core: listener accept loop and per-connection workers
  - core/http: request parsing, header table, request and response models
  - core/files: file-system provider and content types
  - core/pools: bounded worker pool and byte pool
  - core/netutil: listening socket options
  - core/observability: per-outcome request metrics
*/
package fileserver
