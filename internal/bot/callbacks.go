package bot

import (
	"bytes"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/dricdias/telegram-bot/internal/charts"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// handleCallback routes every inline button press. Telebot prefixes callback
// data with "\f".
func (b *Bot) handleCallback(c tele.Context) error {
	data := strings.TrimPrefix(c.Callback().Data, "\f")
	data = strings.TrimSpace(data)
	sess := b.sessions.get(c.Chat().ID)

	defer func() { _ = c.Respond() }()

	switch {
	case data == "voltar_menu":
		return c.Edit("🔍 Menu Principal - Escolha uma opção:", mainMenuKeyboard())

	case data == "categorias":
		return b.cbCategories(c)

	case data == "criar_categoria_menu":
		sess.Mode = modeNewCategory
		return c.Edit("➕ Digite o nome da nova categoria:")

	case data == "dashboard":
		return b.cbDashboard(c)

	case data == "dashboard_bar", data == "dashboard_pie", data == "dashboard_growth":
		return b.cbChart(c, strings.TrimPrefix(data, "dashboard_"))

	case data == "criar_nota":
		sess.Mode = modeNoteTitle
		return c.Edit("📝 Digite o título da sua nota:")

	case data == "buscar":
		sess.Mode = modeSearch
		return c.Edit("🔍 Digite o nome (ou parte do nome) do arquivo que deseja buscar:")

	case data == "renomear":
		sess.Mode = modeRename
		return c.Edit("📝 Digite no formato:\ncategoria/nome_antigo.ext -> novo_nome.ext")

	case data == "excluir":
		sess.Mode = modeDelete
		return c.Edit("❌ Digite no formato:\ncategoria/arquivo.ext")

	case data == "renomear_antes_salvar":
		if sess.Pending == nil {
			return c.Edit("❌ Erro: Nenhum arquivo para renomear. Por favor, envie o arquivo novamente.")
		}
		sess.Mode = modeRenameBeforeSave
		return c.Edit(fmt.Sprintf(
			"✏️ Digite o novo nome para o arquivo:\n(nome atual: %s)", sess.Pending.Name))

	case data == "continuar_sem_renomear":
		return b.showCategoryOptions(c, sess, true)

	case data == "nova_categoria":
		sess.Mode = modeNewCategory
		return c.Edit("➕ Digite o nome da nova categoria para salvar o arquivo:")

	case data == "salvar_nota_padrao":
		return b.showCategoryOptions(c, sess, true)

	case data == "escolher_titulo_nota":
		sess.Mode = modeNoteTitle
		return c.Edit("📝 Digite o título da sua nota:")

	case data == "ignorar_texto":
		b.sessions.clearPending(c.Chat().ID)
		return c.Edit("✅ Texto ignorado. Use /menu para acessar as opções do bot.")

	case strings.HasPrefix(data, "save_to:"):
		return b.saveToCategory(c, strings.TrimPrefix(data, "save_to:"))

	case strings.HasPrefix(data, "voltar_categoria:"):
		return b.cbCategoryFiles(c, strings.TrimPrefix(data, "voltar_categoria:"))

	case strings.HasPrefix(data, "visualizar:"):
		return b.cbView(c, strings.TrimPrefix(data, "visualizar:"))

	case strings.HasPrefix(data, "compartilhar:"):
		return b.cbShare(c, strings.TrimPrefix(data, "compartilhar:"))

	case strings.HasPrefix(data, "excluir_"):
		return b.cbDelete(c, strings.TrimPrefix(data, "excluir_"))
	}

	return c.Respond(&tele.CallbackResponse{Text: "Opção desconhecida."})
}

func (b *Bot) cbCategories(c tele.Context) error {
	cats, err := b.svc.ListCategories()
	if err != nil {
		return c.Edit(fmt.Sprintf("❌ Erro ao listar categorias: %s", err))
	}
	if len(cats) == 0 {
		return c.Edit(
			"📂 Nenhuma categoria criada ainda.\n"+
				"Use /categoria <nome> ou crie uma agora:",
			inlineRows(
				[]tele.InlineButton{btn("➕ Nova Categoria", "criar_categoria_menu")},
				[]tele.InlineButton{btn("🔙 Voltar ao Menu", "voltar_menu")},
			))
	}
	return c.Edit("📂 Suas categorias:\nClique em uma para ver os arquivos.", categoriesKeyboard(cats))
}

func (b *Bot) cbCategoryFiles(c tele.Context, category string) error {
	files, err := b.svc.ListFiles(category)
	if err == organizer.ErrCategoryNotFound {
		return c.Edit(fmt.Sprintf("❌ Categoria '%s' não encontrada.", category))
	}
	if err != nil {
		return c.Edit(fmt.Sprintf("❌ Erro ao listar arquivos: %s", err))
	}

	if len(files) == 0 {
		return c.Edit(fmt.Sprintf(
			"📂 Categoria '%s' está vazia.\n"+
				"Envie arquivos depois de usar /categoria %s", category, category),
			inlineRows([]tele.InlineButton{btn("🔙 Voltar para Categorias", "categorias")}))
	}

	return c.Edit(fmt.Sprintf(
		"📂 Arquivos em '%s':\nClique em um arquivo para visualizar.", category),
		filesKeyboard(category, files))
}

func (b *Bot) cbView(c tele.Context, path string) error {
	category, name, ok := splitPath(path)
	if !ok {
		return c.Edit("❌ Arquivo inválido.")
	}

	file, err := b.svc.GetFile(category, name)
	if err == organizer.ErrCategoryNotFound || err == organizer.ErrFileNotFound {
		return c.Edit("❌ Arquivo não encontrado. Ele pode ter sido excluído.")
	}
	if err != nil {
		return c.Edit(fmt.Sprintf("❌ Erro ao buscar o arquivo: %s", err))
	}

	content, err := b.svc.FileContent(file)
	if err != nil {
		return c.Edit(fmt.Sprintf("❌ Erro ao carregar o arquivo: %s", err))
	}

	caption := fmt.Sprintf("📄 %s\n📂 Categoria: %s", file.Name, category)
	markup := viewKeyboard(category, file.Name)

	if file.IsImage() {
		photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(content)), Caption: caption}
		return c.Send(photo, markup)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(content)),
		FileName: file.Name,
		Caption:  caption,
	}
	return c.Send(doc, markup)
}

func (b *Bot) cbShare(c tele.Context, path string) error {
	category, name, ok := splitPath(path)
	if !ok {
		return c.Send("❌ Arquivo inválido.")
	}

	return c.Send(fmt.Sprintf(
		"📤 Para compartilhar, encaminhe a mensagem acima com o arquivo.\n"+
			"📄 %s\n📂 Categoria: %s", name, category))
}

func (b *Bot) cbDelete(c tele.Context, payload string) error {
	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 {
		return c.Send("❌ Arquivo inválido.")
	}
	category, name := parts[0], parts[1]

	err := b.svc.DeleteFile(category, name)
	switch err {
	case nil:
	case organizer.ErrCategoryNotFound, organizer.ErrFileNotFound:
		return c.Send("❌ Arquivo não encontrado. Ele pode já ter sido excluído.")
	default:
		return c.Send(fmt.Sprintf("❌ Erro ao excluir o arquivo: %s", err))
	}

	b.notify(ws.MsgFileDeleted, category, name)
	return c.Send(fmt.Sprintf(
		"✅ Arquivo excluído com sucesso!\n📂 Categoria: %s\n📄 Arquivo: %s", category, name),
		inlineRows(
			[]tele.InlineButton{btn("📂 Ver Categoria", "voltar_categoria:"+category)},
			[]tele.InlineButton{btn("🔍 Menu Principal", "voltar_menu")},
		))
}

func (b *Bot) cbDashboard(c tele.Context) error {
	stats, err := b.svc.Stats()
	if err != nil {
		return c.Edit(fmt.Sprintf("❌ Erro ao calcular estatísticas: %s", err))
	}

	var sb strings.Builder
	sb.WriteString("📊 *Dashboard do Organizador*\n\n")
	fmt.Fprintf(&sb, "📂 Categorias: %d\n", stats.TotalCategories)
	fmt.Fprintf(&sb, "📄 Arquivos: %d\n", stats.TotalFiles)
	if stats.LargestCategory != "" {
		fmt.Fprintf(&sb, "🏆 Maior categoria: %s (%d arquivos)\n",
			stats.LargestCategory, stats.LargestCategoryCount)
	}
	if stats.NewestCategory != "" {
		fmt.Fprintf(&sb, "🆕 Categoria mais recente: %s\n", stats.NewestCategory)
	}
	if len(stats.PerCategory) > 0 {
		sb.WriteString("\n*Arquivos por categoria:*\n")
		for _, pc := range stats.PerCategory {
			fmt.Fprintf(&sb, "• %s: %d\n", pc.Name, pc.Count)
		}
	}

	return c.Edit(sb.String(), dashboardKeyboard(), tele.ModeMarkdown)
}

func (b *Bot) cbChart(c tele.Context, kind string) error {
	var (
		png     []byte
		caption string
		err     error
	)

	switch kind {
	case "bar":
		var stats *organizer.Stats
		if stats, err = b.svc.Stats(); err == nil {
			png, err = charts.CategoryBar(stats.PerCategory)
		}
		caption = "📊 Número de arquivos por categoria"
	case "pie":
		var stats *organizer.Stats
		if stats, err = b.svc.Stats(); err == nil {
			png, err = charts.CategoryPie(stats.PerCategory)
		}
		caption = "🍩 Distribuição de arquivos por categoria"
	case "growth":
		var series []organizer.CategorySeries
		if series, err = b.svc.GrowthSeries(); err == nil {
			png, err = charts.CategoryGrowth(series)
		}
		caption = "📈 Evolução de arquivos por categoria"
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Gráfico desconhecido."})
	}

	if err == charts.ErrNoData {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Ainda não há dados suficientes para este gráfico.",
			ShowAlert: true,
		})
	}
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Erro ao gerar o gráfico: %s", err))
	}

	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(png)), Caption: caption}
	return c.Send(photo, dashboardKeyboard())
}

// splitPath splits "categoria/arquivo.ext" callback payloads.
func splitPath(path string) (category, name string, ok bool) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
