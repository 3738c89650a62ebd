package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/painel"
)

// commandPages página que abre cada comando. login y paginas no pasan por el guard.
var commandPages = map[string]access.Page{
	"entregas":     access.PageDeliveries,
	"estatisticas": access.PageDashboard,
	"confirmar":    access.PageDeliveries,
	"status":       access.PageDeliveries,
	"excluir":      access.PageDeliveries,
	"nova-entrega": access.PageDeliveries,
	"relatorio":    access.PageDeliveries,
	"produtos":     access.PageProducts,
	"usuarios":     access.PageUsers,
	"empresas":     access.PageCompanies,
}

// deniedError el guard negó la página del comando.
type deniedError struct {
	Page     access.Page
	Redirect access.Page
}

func (e *deniedError) Error() string {
	return fmt.Sprintf("acesso negado a %s: redirecionado para %s", e.Page.Path(), e.Redirect.Path())
}

type cli struct {
	session    *painel.Session
	client     *painel.Client
	guard      *painel.Guard
	deliveries *painel.DeliveryView
	products   *painel.ResourceView[dto.ProductResponse, dto.ProductRequest]
	users      *painel.ResourceView[dto.UserResponse, painel.UserForm]
	companies  *painel.ResourceView[dto.CompanyResponse, dto.CompanyRequest]
	out        io.Writer
	in         *bufio.Reader
	yes        bool
	// secret pide la senha de un usuário nuevo.
	secret func() (string, error)
}

func newCLI(session *painel.Session, client *painel.Client, out io.Writer, in io.Reader, yes bool) *cli {
	return &cli{
		session:    session,
		client:     client,
		guard:      painel.NewGuard(session),
		deliveries: painel.NewDeliveryView(client, session),
		products:   painel.NewProductView(client),
		users:      painel.NewUserView(client),
		companies:  painel.NewCompanyView(client),
		out:        out,
		in:         bufio.NewReader(in),
		yes:        yes,
	}
}

func (a *cli) run(ctx context.Context, cmd string, args []string) error {
	if page, ok := commandPages[cmd]; ok {
		d, err := a.guard.Navigate(page.Path())
		if err != nil {
			return err
		}
		if !d.Allowed {
			return &deniedError{Page: page, Redirect: d.Redirect}
		}
	}
	switch cmd {
	case "login":
		u, err := a.session.User()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s <%s> (%s)\n", u.Nome, u.Email, u.TipoUsuario)
		return nil
	case "paginas":
		menu, err := a.guard.Menu()
		if err != nil {
			return err
		}
		for _, m := range menu {
			fmt.Fprintf(a.out, "%-10s %s\n", m.Label, m.Path)
		}
		return nil
	case "entregas":
		return a.listDeliveries(ctx, args)
	case "estatisticas":
		return a.stats(ctx)
	case "confirmar":
		if err := need(args, 1, "confirmar <id>"); err != nil {
			return err
		}
		if err := a.deliveries.Refresh(ctx); err != nil {
			return err
		}
		if err := a.deliveries.ConfirmDelivery(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "entrega confirmada")
		return nil
	case "status":
		if err := need(args, 2, "status <id> <status>"); err != nil {
			return err
		}
		if err := a.deliveries.Refresh(ctx); err != nil {
			return err
		}
		if err := a.deliveries.ChangeStatus(ctx, args[0], entity.DeliveryStatus(args[1])); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "status atualizado")
		return nil
	case "excluir":
		if err := need(args, 1, "excluir <id>"); err != nil {
			return err
		}
		if err := a.deliveries.Refresh(ctx); err != nil {
			return err
		}
		if err := a.deliveries.Delete(ctx, args[0], a.confirmer()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "entrega excluída")
		return nil
	case "nova-entrega":
		return a.newDelivery(ctx, args)
	case "relatorio":
		if err := need(args, 3, "relatorio <inicio> <fim> <arquivo.pdf>"); err != nil {
			return err
		}
		pdf, err := a.client.DeliveryReport(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], pdf, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", args[2], err)
		}
		fmt.Fprintf(a.out, "relatório gravado em %s (%d bytes)\n", args[2], len(pdf))
		return nil
	case "produtos":
		return a.productsCmd(ctx, args)
	case "usuarios":
		return a.usersCmd(ctx, args)
	case "empresas":
		return a.companiesCmd(ctx, args)
	default:
		return fmt.Errorf("comando desconocido %q", cmd)
	}
}

func (a *cli) listDeliveries(ctx context.Context, args []string) error {
	var f painel.DeliveryFilter
	if len(args) > 0 && args[0] != "todos" {
		f.Status = entity.DeliveryStatus(args[0])
	}
	if len(args) > 1 {
		f.Search = strings.Join(args[1:], " ")
	}
	if err := a.deliveries.Refresh(ctx); err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATA\tDESCRIÇÃO\tCLIENTE\tPRODUTO\tQTD\tSTATUS\tENTREGADOR")
	for _, d := range a.deliveries.Items(f) {
		produto, entregador := "-", "-"
		if d.Produto != nil {
			produto = d.Produto.Descricao
		}
		if d.Entregador != nil {
			entregador = d.Entregador.Nome
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			d.ID, d.Data.Format(time.DateOnly), d.Descricao, d.Cliente, produto, d.Quantidade, d.Status, entregador)
	}
	return w.Flush()
}

func (a *cli) stats(ctx context.Context) error {
	if err := a.deliveries.Refresh(ctx); err != nil {
		return err
	}
	st, err := a.deliveries.Stats()
	fmt.Fprintf(a.out, "total: %d\n", st.Total)
	for _, s := range entity.DeliveryStatuses() {
		fmt.Fprintf(a.out, "%-12s %d\n", s, st.Count(s))
	}
	for name, n := range st.Unknown {
		fmt.Fprintf(a.out, "%-12s %d (desconhecido)\n", name, n)
	}
	return err
}

// newDelivery: <descricao> <cliente> <produto_id[:qtd]>... con data= y entregador= opcionales.
func (a *cli) newDelivery(ctx context.Context, args []string) error {
	const usage = "nova-entrega <descricao> <cliente> <produto_id[:qtd]>... [data=AAAA-MM-DD] [entregador=<id>]"
	if err := need(args, 3, usage); err != nil {
		return err
	}
	form := painel.DeliveryForm{Descricao: args[0], Cliente: args[1]}
	for _, arg := range args[2:] {
		switch {
		case strings.HasPrefix(arg, "data="):
			form.Data = strings.TrimPrefix(arg, "data=")
		case strings.HasPrefix(arg, "entregador="):
			form.EntregadorID = strings.TrimPrefix(arg, "entregador=")
		default:
			id, qtd, _ := strings.Cut(arg, ":")
			form.Produtos = append(form.Produtos, painel.DeliveryFormItem{ProdutoID: id, Quantidade: qtd})
		}
	}
	created, err := a.deliveries.Create(ctx, form)
	if err != nil {
		return err
	}
	for _, d := range created {
		fmt.Fprintf(a.out, "entrega criada: %s (%s x%d)\n", d.ID, d.ProdutoID, d.Quantidade)
	}
	return nil
}

func (a *cli) productsCmd(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "listar":
		if err := a.products.Refresh(ctx); err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDESCRIÇÃO\tCUSTO\tVENDA\tESTOQUE")
		for _, p := range a.products.Items(strings.Join(rest, " ")) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Descricao, p.PrecoCusto.StringFixed(2), p.PrecoVenda.StringFixed(2), p.Estoque)
		}
		return w.Flush()
	case "criar":
		if err := need(rest, 3, "produtos criar <descricao> <custo> <venda> [estoque]"); err != nil {
			return err
		}
		form := painel.ProductForm{Descricao: rest[0], PrecoCusto: rest[1], PrecoVenda: rest[2]}
		if len(rest) > 3 {
			form.Estoque = rest[3]
		}
		in, err := form.Request()
		if err != nil {
			return err
		}
		p, err := a.products.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "produto criado: %s\n", p.ID)
		return nil
	case "excluir":
		if err := need(rest, 1, "produtos excluir <id>"); err != nil {
			return err
		}
		if err := a.products.Refresh(ctx); err != nil {
			return err
		}
		if err := a.products.Delete(ctx, rest[0], a.confirmer()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "produto excluído")
		return nil
	default:
		return fmt.Errorf("subcomando desconocido %q", sub)
	}
}

func (a *cli) usersCmd(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "listar":
		if err := a.users.Refresh(ctx); err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNOME\tEMAIL\tTIPO\tEMPRESA")
		for _, u := range a.users.Items(strings.Join(rest, " ")) {
			empresa := u.EmpresaID
			if u.Empresa != nil {
				empresa = u.Empresa.RazaoSocial
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Nome, u.Email, u.TipoUsuario, empresa)
		}
		return w.Flush()
	case "criar":
		if err := need(rest, 3, "usuarios criar <nome> <email> <tipo> [empresa_id]"); err != nil {
			return err
		}
		form := painel.UserForm{Nome: rest[0], Email: rest[1], TipoUsuario: rest[2]}
		if len(rest) > 3 {
			form.EmpresaID = rest[3]
		}
		if a.secret != nil {
			senha, err := a.secret()
			if err != nil {
				return err
			}
			form.Senha = senha
		}
		u, err := a.users.Create(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "usuário criado: %s\n", u.ID)
		return nil
	case "excluir":
		if err := need(rest, 1, "usuarios excluir <id>"); err != nil {
			return err
		}
		if err := a.users.Refresh(ctx); err != nil {
			return err
		}
		if err := a.users.Delete(ctx, rest[0], a.confirmer()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "usuário excluído")
		return nil
	default:
		return fmt.Errorf("subcomando desconocido %q", sub)
	}
}

func (a *cli) companiesCmd(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "listar":
		if err := a.companies.Refresh(ctx); err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCNPJ/CPF\tRAZÃO SOCIAL\tENDEREÇO")
		for _, e := range a.companies.Items(strings.Join(rest, " ")) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.CNPJCPF, e.RazaoSocial, e.Endereco)
		}
		return w.Flush()
	case "criar":
		if err := need(rest, 1, "empresas criar <cnpj_cpf> [razao_social] [endereco]"); err != nil {
			return err
		}
		form := painel.CompanyForm{CNPJCPF: rest[0]}
		if len(rest) > 1 {
			form.RazaoSocial = rest[1]
		}
		if len(rest) > 2 {
			form.Endereco = strings.Join(rest[2:], " ")
		}
		filled, err := form.Autofill(ctx, a.client)
		if err != nil {
			return err
		}
		if filled {
			fmt.Fprintf(a.out, "dados do CNPJ: %s, %s\n", form.RazaoSocial, form.Endereco)
		}
		in, err := form.Request()
		if err != nil {
			return err
		}
		e, err := a.companies.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "empresa criada: %s\n", e.ID)
		return nil
	case "excluir":
		if err := need(rest, 1, "empresas excluir <id>"); err != nil {
			return err
		}
		if err := a.companies.Refresh(ctx); err != nil {
			return err
		}
		if err := a.companies.Delete(ctx, rest[0], a.confirmer()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "empresa excluída")
		return nil
	default:
		return fmt.Errorf("subcomando desconocido %q", sub)
	}
}

func (a *cli) confirmer() painel.Confirmer {
	if a.yes {
		return painel.ConfirmFunc(func(string) bool { return true })
	}
	return painel.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(os.Stderr, "%s [s/N] ", prompt)
		line, _ := a.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "sim", "y", "yes":
			return true
		}
		return false
	})
}

// subcommand separa el subcomando; sin argumentos es listar.
func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "listar", nil
	}
	return args[0], args[1:]
}

func need(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("uso: %s", usage)
	}
	return nil
}
