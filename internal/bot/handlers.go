package bot

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/ws"
)

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(
		"👋 Bem-vindo ao Organizador de Arquivos Bot!\n\n" +
			"Este bot ajuda você a organizar seus arquivos em categorias.\n\n" +
			"Comandos disponíveis:\n" +
			"• /menu - Mostrar o menu principal\n" +
			"• /categoria <nome> - Definir a categoria atual\n" +
			"• /listar <categoria> - Listar arquivos em uma categoria\n\n" +
			"Você também pode enviar arquivos ou fotos diretamente para salvá-los.")
}

func (b *Bot) handleMenu(c tele.Context) error {
	return c.Send("🔍 Menu Principal - Escolha uma opção:", mainMenuKeyboard())
}

func (b *Bot) handleSetCategory(c tele.Context) error {
	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return c.Send("❌ Uso incorreto. Use: /categoria <nome>\n" +
			"Exemplo: /categoria documentos")
	}

	if _, err := b.svc.CreateCategory(name); err != nil {
		return c.Send(fmt.Sprintf("❌ Erro ao criar categoria: %s", err))
	}
	b.notify(ws.MsgCategoryCreated, name, "")

	sess := b.sessions.get(c.Chat().ID)
	sess.Category = name

	return c.Send(fmt.Sprintf(
		"✅ Categoria atual definida: 📁 %s\n"+
			"Todos os arquivos enviados serão salvos nesta categoria.", name))
}

func (b *Bot) handleList(c tele.Context) error {
	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return c.Send("❌ Uso incorreto. Use: /listar <categoria>\n" +
			"Exemplo: /listar documentos")
	}

	files, err := b.svc.ListFiles(name)
	if err == organizer.ErrCategoryNotFound {
		return c.Send(fmt.Sprintf(
			"❌ Categoria '%s' não encontrada.\n"+
				"Use /categoria %s para criar esta categoria.", name, name))
	}
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Erro ao listar arquivos: %s", err))
	}

	if len(files) == 0 {
		return c.Send(fmt.Sprintf(
			"📂 Categoria '%s' está vazia.\n"+
				"Envie arquivos depois de usar /categoria %s", name, name))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📂 Arquivos na categoria '%s':\n\n", name)
	for _, f := range files {
		fmt.Fprintf(&sb, "📄 %s\n", f.Name)
	}
	return c.Send(sb.String())
}

func (b *Bot) handleDocument(c tele.Context) error {
	doc := c.Message().Document
	name := doc.FileName
	if name == "" {
		name = "arquivo_" + time.Now().Format("20060102_150405")
	}
	return b.receiveUpload(c, name, model.KindDocument, &doc.File)
}

func (b *Bot) handlePhoto(c tele.Context) error {
	photo := c.Message().Photo
	name := fmt.Sprintf("foto_%s.jpg", time.Now().Format("20060102_150405"))
	return b.receiveUpload(c, name, model.KindPhoto, &photo.File)
}

func (b *Bot) handleVideo(c tele.Context) error {
	video := c.Message().Video
	name := video.FileName
	if name == "" {
		name = fmt.Sprintf("video_%s.mp4", time.Now().Format("20060102_150405"))
	}
	return b.receiveUpload(c, name, model.KindVideo, &video.File)
}

func (b *Bot) handleAudio(c tele.Context) error {
	audio := c.Message().Audio
	name := audio.FileName
	if name == "" {
		name = fmt.Sprintf("audio_%s.mp3", time.Now().Format("20060102_150405"))
	}
	return b.receiveUpload(c, name, model.KindAudio, &audio.File)
}

func (b *Bot) handleVoice(c tele.Context) error {
	voice := c.Message().Voice
	name := fmt.Sprintf("voz_%s.ogg", time.Now().Format("20060102_150405"))
	return b.receiveUpload(c, name, model.KindVoice, &voice.File)
}

// receiveUpload downloads the payload, parks it in the session and asks
// whether to rename before saving.
func (b *Bot) receiveUpload(c tele.Context, name, kind string, file *tele.File) error {
	content, err := b.download(file)
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Erro ao baixar o arquivo: %s", err))
	}

	sess := b.sessions.get(c.Chat().ID)
	sess.Pending = &pendingFile{
		Name:           name,
		Kind:           kind,
		TelegramFileID: file.FileID,
		Content:        content,
	}
	sess.Mode = modeNone

	return c.Send(fmt.Sprintf(
		"🗂️ Arquivo recebido: %s\n\n"+
			"Deseja renomear este arquivo antes de salvá-lo?", name),
		renameBeforeSaveKeyboard())
}

func (b *Bot) handleText(c tele.Context) error {
	sess := b.sessions.get(c.Chat().ID)
	text := strings.TrimSpace(c.Text())

	switch sess.Mode {
	case modeRenameBeforeSave:
		return b.textRenameBeforeSave(c, sess, text)
	case modeNoteTitle:
		return b.textNoteTitle(c, sess, text)
	case modeNoteContent:
		return b.textNoteContent(c, sess, text)
	case modeNewCategory:
		return b.textNewCategory(c, sess, text)
	case modeSearch:
		return b.textSearch(c, sess, text)
	case modeRename:
		return b.textRename(c, sess, text)
	case modeDelete:
		return b.textDelete(c, sess, text)
	}

	// No mode set: treat longer messages as note candidates.
	if len(text) > 3 {
		sess.Pending = &pendingFile{
			Name:    fmt.Sprintf("nota_%s.txt", time.Now().Format("20060102_150405")),
			Kind:    model.KindNote,
			Content: []byte(text),
		}
		return c.Send(
			"📝 *Nota de Texto Detectada*\n\n"+
				"Deseja escolher um título personalizado ou salvar com título padrão?",
			noteTitleKeyboard(), tele.ModeMarkdown)
	}
	return c.Send("Use /menu para acessar as opções do bot.")
}

func (b *Bot) textRenameBeforeSave(c tele.Context, sess *session, newName string) error {
	sess.Mode = modeNone

	if newName == "" {
		return c.Send("❌ Por favor, forneça um nome válido para o arquivo.")
	}
	if sess.Pending == nil {
		return c.Send("❌ Erro: Nenhum arquivo para renomear. Por favor, envie o arquivo novamente.")
	}

	// Preserve the original extension when the new name has none.
	if strings.Contains(sess.Pending.Name, ".") && !strings.Contains(newName, ".") {
		parts := strings.Split(sess.Pending.Name, ".")
		newName = newName + "." + parts[len(parts)-1]
	}
	sess.Pending.Name = newName

	return b.showCategoryOptions(c, sess, false)
}

func (b *Bot) textNoteTitle(c tele.Context, sess *session, title string) error {
	if title == "" {
		return c.Send("❌ Por favor, forneça um título válido para a nota.")
	}

	sess.NoteTitle = title
	sess.Mode = modeNoteContent

	return c.Send(fmt.Sprintf(
		"📝 Título da nota: %s\n\n"+
			"Agora, por favor, digite o conteúdo da sua nota:", title))
}

func (b *Bot) textNoteContent(c tele.Context, sess *session, content string) error {
	sess.Mode = modeNone

	if content == "" {
		return c.Send("❌ Por favor, forneça algum conteúdo para a nota.")
	}

	title := sess.NoteTitle
	if title == "" {
		title = "Nota sem título"
	}
	title = strings.NewReplacer("/", "_", "\\", "_").Replace(title)
	sess.NoteTitle = ""

	sess.Pending = &pendingFile{
		Name:    fmt.Sprintf("%s_%s.txt", title, time.Now().Format("20060102_150405")),
		Kind:    model.KindNote,
		Content: []byte(content),
	}

	return b.showCategoryOptions(c, sess, false)
}

func (b *Bot) textNewCategory(c tele.Context, sess *session, name string) error {
	sess.Mode = modeNone

	if name == "" {
		return c.Send("❌ Por favor, forneça um nome válido para a categoria.")
	}

	// A file may be waiting to be saved into the new category.
	if sess.Pending != nil {
		return b.saveToCategory(c, name)
	}

	if _, err := b.svc.CreateCategory(name); err != nil {
		return c.Send(fmt.Sprintf("❌ Erro ao criar categoria: %s", err))
	}
	b.notify(ws.MsgCategoryCreated, name, "")
	sess.Category = name

	return c.Send(fmt.Sprintf(
		"✅ Categoria '%s' criada com sucesso!\n"+
			"Esta agora é sua categoria padrão para upload de arquivos.", name),
		inlineRows(
			[]tele.InlineButton{btn("📂 Ver Categoria", "voltar_categoria:"+name)},
			[]tele.InlineButton{btn("🔍 Menu Principal", "voltar_menu")},
		))
}

func (b *Bot) textSearch(c tele.Context, sess *session, term string) error {
	sess.Mode = modeNone

	if len(term) < 3 {
		return c.Send("🔍 Por favor, digite pelo menos 3 caracteres para a busca.")
	}

	results, err := b.svc.Search(term)
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Erro durante a busca: %s", err))
	}
	if len(results) == 0 {
		return c.Send(fmt.Sprintf("🔍 Nenhum arquivo encontrado para '%s'.", term))
	}

	var rows [][]tele.InlineButton
	for _, r := range results {
		path := r.Category + "/" + r.File.Name
		rows = append(rows, []tele.InlineButton{btn("📄 "+path, "visualizar:"+path)})
	}
	rows = append(rows, []tele.InlineButton{btn("🔙 Voltar ao Menu", "voltar_menu")})

	return c.Send(fmt.Sprintf(
		"🔍 Resultado da busca por '%s':\nClique em um arquivo para visualizar:", term),
		inlineRows(rows...))
}

func (b *Bot) textRename(c tele.Context, sess *session, input string) error {
	sess.Mode = modeNone

	if !strings.Contains(input, "->") {
		return c.Send("❌ Formato inválido. Use: categoria/nome_antigo.ext -> novo_nome.ext")
	}

	parts := strings.SplitN(input, "->", 2)
	source := strings.TrimSpace(parts[0])
	newName := strings.TrimSpace(parts[1])

	if !strings.Contains(source, "/") {
		return c.Send("❌ Formato inválido. Especifique a categoria: categoria/nome_antigo.ext")
	}
	pathParts := strings.SplitN(source, "/", 2)
	category, oldName := pathParts[0], pathParts[1]

	err := b.svc.RenameFile(category, oldName, newName)
	switch err {
	case nil:
	case organizer.ErrCategoryNotFound, organizer.ErrFileNotFound:
		return c.Send("❌ Arquivo não encontrado. Verifique o nome e a categoria.")
	case organizer.ErrFileExists:
		return c.Send("❌ Já existe um arquivo com este nome na categoria.")
	default:
		return c.Send(fmt.Sprintf("❌ Erro ao renomear o arquivo: %s", err))
	}

	b.notify(ws.MsgFileRenamed, category, newName)
	return c.Send(fmt.Sprintf(
		"✅ Arquivo renomeado com sucesso!\n"+
			"📂 Categoria: %s\n"+
			"📄 De: %s\n"+
			"📄 Para: %s", category, oldName, newName))
}

func (b *Bot) textDelete(c tele.Context, sess *session, input string) error {
	sess.Mode = modeNone

	if !strings.Contains(input, "/") {
		return c.Send("❌ Formato inválido. Use: categoria/arquivo.ext")
	}
	parts := strings.SplitN(input, "/", 2)
	category, name := parts[0], parts[1]

	err := b.svc.DeleteFile(category, name)
	switch err {
	case nil:
	case organizer.ErrCategoryNotFound, organizer.ErrFileNotFound:
		return c.Send("❌ Arquivo não encontrado. Verifique o nome e a categoria.")
	default:
		return c.Send(fmt.Sprintf("❌ Erro ao excluir o arquivo: %s", err))
	}

	b.notify(ws.MsgFileDeleted, category, name)
	return c.Send(fmt.Sprintf(
		"✅ Arquivo excluído com sucesso!\n"+
			"📂 Categoria: %s\n"+
			"📄 Arquivo: %s", category, name))
}

// showCategoryOptions asks which category the pending file goes into.
func (b *Bot) showCategoryOptions(c tele.Context, sess *session, edit bool) error {
	if sess.Pending == nil {
		return c.Send("❌ Erro: nenhum arquivo pendente. Por favor, envie o arquivo novamente.")
	}

	cats, err := b.svc.ListCategories()
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Erro ao listar categorias: %s", err))
	}

	text := fmt.Sprintf(
		"📄 Arquivo: %s\n\n"+
			"📂 Escolha uma categoria para salvar ou crie uma nova:", sess.Pending.Name)
	markup := categoryPickKeyboard(sess.Category, cats)

	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

// savePending files the chat's pending upload into the category and returns
// the reply. The pending file is kept around when saving fails so the user can
// pick a category again; a nil markup signals failure.
func (b *Bot) savePending(chatID int64, category string) (string, *tele.ReplyMarkup) {
	sess := b.sessions.get(chatID)
	pending := sess.Pending
	if pending == nil {
		return "❌ Erro: nenhum arquivo pendente. Por favor, envie o arquivo novamente.", nil
	}

	saved, err := b.svc.SaveFile(category, organizer.SaveRequest{
		Name:           pending.Name,
		Kind:           pending.Kind,
		TelegramFileID: pending.TelegramFileID,
		Content:        pending.Content,
	})
	if err != nil {
		return fmt.Sprintf("❌ Erro ao salvar o arquivo: %s\nPor favor, tente novamente.", err), nil
	}

	b.sessions.clearPending(chatID)
	// Saving makes this the default category for future uploads.
	sess.Category = category
	b.notify(ws.MsgFileSaved, category, saved.Name)

	noun := "Arquivo"
	if saved.Kind == model.KindNote {
		noun = "Nota"
	}
	text := fmt.Sprintf("✅ %s salvo com sucesso!\n📂 Categoria: %s\n📄 Nome: %s",
		noun, category, saved.Name)
	return text, savedKeyboard(category, saved.Name)
}

// saveToCategory files the pending upload and confirms.
func (b *Bot) saveToCategory(c tele.Context, category string) error {
	text, markup := b.savePending(c.Chat().ID, category)
	if markup == nil {
		return c.Send(text)
	}
	if c.Callback() != nil {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}
