// token emite un JWT para un operador. La gestión de usuarios vive en el sistema del
// gimnasio; esto sirve para desarrollo y para integrar recepción.
//
// Uso: go run ./cmd/token -user 1 -role admin
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/caja-market/pkg/config"
	"github.com/jhoicas/caja-market/pkg/jwt"
)

func main() {
	userID := flag.Int64("user", 0, "id del operador")
	role := flag.String("role", "recepcion", "admin | recepcion")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "uso: token -user <id> [-role admin|recepcion]")
		os.Exit(2)
	}
	if *role != "admin" && *role != "recepcion" {
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *role)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
