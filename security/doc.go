// Package security builds the TLS settings of the recq HTTP server.
//
// A certificate and key enable HTTPS; a client CA additionally requires
// callers to present a certificate signed by it (mutual TLS):
//
//	server:
//	  tls:
//	    cert_file: /etc/recq/tls/cert.pem
//	    key_file: /etc/recq/tls/key.pem
//	    client_ca_file: /etc/recq/tls/clients.pem
package security
