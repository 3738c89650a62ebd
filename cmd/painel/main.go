// painel es el front-end de terminal del painel de entregas.
//
// Uso: painel [-email usuario@empresa.com] [-y] <comando> [args]
//
//	login                      valida credenciales y muestra el usuario
//	paginas                    páginas del menú para el rol
//	entregas [status] [busca]  lista entregas (filtro local)
//	estatisticas               conteo por estado
//	confirmar <id>             confirma una entrega pendente (entregador)
//	status <id> <status>       cambia el estado (master/admin)
//	excluir <id>               elimina una entrega, previa confirmación
//	nova-entrega <descricao> <cliente> <produto_id[:qtd]>... [data=AAAA-MM-DD] [entregador=<id>]
//	relatorio <inicio> <fim> <arquivo.pdf>
//	produtos [listar [busca] | criar <descricao> <custo> <venda> [estoque] | excluir <id>]
//	usuarios [listar [busca] | criar <nome> <email> <tipo> [empresa_id] | excluir <id>]
//	empresas [listar [busca] | criar <cnpj_cpf> [razao_social] [endereco] | excluir <id>]
//
// Cada comando pasa antes por el guard de páginas: si el rol no puede abrir la página se
// informa la redirección y no se llama a la API.
//
// La URL base sale de PAINEL_BASE_URL / PAINEL_USE_TLS. El email puede venir de
// PAINEL_EMAIL y la senha de PAINEL_SENHA; si falta la senha se pide sin eco. La senha de
// un usuário nuevo sale de PAINEL_NOVA_SENHA o se pide igual.
// No se guarda ningún token: cada ejecución inicia sesión.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/jhoicas/gestao-entregas/internal/painel"
	"github.com/jhoicas/gestao-entregas/pkg/config"
	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

var readPassword = term.ReadPassword

func main() {
	email := flag.String("email", os.Getenv("PAINEL_EMAIL"), "email del usuario")
	yes := flag.Bool("y", false, "no pedir confirmación al excluir")
	flag.Parse()

	log := logger.New(logger.Config{Env: envOr("APP_ENV", "development"), Level: envOr("APP_LOG_LEVEL", "warn"), Output: os.Stderr})

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del cliente")
	}
	endpoint, err := cfg.Endpoint()
	if err != nil {
		log.Fatal().Err(err).Msg("URL base del cliente")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := painel.NewSession()
	client := painel.NewClient(endpoint, cfg.Timeout, session)

	if strings.TrimSpace(*email) == "" {
		log.Fatal().Msg("-email o PAINEL_EMAIL es obligatorio")
	}
	senha, err := password("PAINEL_SENHA", "Senha: ")
	if err != nil {
		log.Fatal().Err(err).Msg("leer senha")
	}
	user, err := session.Login(ctx, client, *email, senha)
	if err != nil {
		log.Fatal().Str("endpoint", endpoint).Msg(painel.ErrorMessage(err))
	}
	log.Debug().Str("usuario_id", user.ID).Str("tipo_usuario", user.TipoUsuario).Msg("sesión iniciada")

	app := newCLI(session, client, os.Stdout, os.Stdin, *yes)
	app.secret = func() (string, error) { return password("PAINEL_NOVA_SENHA", "Senha do novo usuário: ") }
	if err := app.run(ctx, args[0], args[1:]); err != nil {
		var denied *deniedError
		switch {
		case errors.Is(err, painel.ErrCancelled):
			fmt.Fprintln(os.Stderr, "cancelado")
		case errors.As(err, &denied):
			fmt.Fprintln(os.Stderr, denied.Error())
		default:
			log.Error().Str("comando", args[0]).Msg(painel.ErrorMessage(err))
		}
		os.Exit(1)
	}
}

func password(env, prompt string) (string, error) {
	if p := os.Getenv(env); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
