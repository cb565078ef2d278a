package bot

import (
	tele "gopkg.in/telebot.v3"

	"github.com/dricdias/telegram-bot/internal/model"
)

func btn(text, data string) tele.InlineButton {
	return tele.InlineButton{Text: text, Data: data}
}

func inlineRows(rows ...[]tele.InlineButton) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// mainMenuKeyboard is the /menu keyboard.
func mainMenuKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]tele.InlineButton{btn("📂 Categorias", "categorias")},
		[]tele.InlineButton{btn("📊 Dashboard", "dashboard")},
		[]tele.InlineButton{btn("📝 Nova Nota", "criar_nota")},
		[]tele.InlineButton{btn("🔍 Buscar Arquivo", "buscar")},
		[]tele.InlineButton{btn("📝 Renomear Arquivo", "renomear")},
		[]tele.InlineButton{btn("❌ Excluir Arquivo", "excluir")},
	)
}

// renameBeforeSaveKeyboard asks whether to rename an upload before filing it.
func renameBeforeSaveKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]tele.InlineButton{btn("✏️ Renomear", "renomear_antes_salvar")},
		[]tele.InlineButton{btn("✅ Continuar sem renomear", "continuar_sem_renomear")},
	)
}

// categoryPickKeyboard lists categories to save the pending file into, with
// the current default first.
func categoryPickKeyboard(current string, cats []model.Category) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton

	if current != "" {
		rows = append(rows, []tele.InlineButton{
			btn("📁 "+current+" (Atual)", "save_to:"+current),
		})
	}
	for _, cat := range cats {
		if cat.Name == current {
			continue
		}
		rows = append(rows, []tele.InlineButton{
			btn("📁 "+cat.Name, "save_to:"+cat.Name),
		})
	}
	rows = append(rows, []tele.InlineButton{btn("➕ Criar Nova Categoria", "nova_categoria")})

	return inlineRows(rows...)
}

// categoriesKeyboard lists every category for browsing.
func categoriesKeyboard(cats []model.Category) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, cat := range cats {
		rows = append(rows, []tele.InlineButton{
			btn("📁 "+cat.Name, "voltar_categoria:"+cat.Name),
		})
	}
	rows = append(rows,
		[]tele.InlineButton{btn("➕ Nova Categoria", "criar_categoria_menu")},
		[]tele.InlineButton{btn("🔙 Voltar ao Menu", "voltar_menu")},
	)
	return inlineRows(rows...)
}

// filesKeyboard lists the files of one category, one button per file.
func filesKeyboard(category string, files []model.StoredFile) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, f := range files {
		rows = append(rows, []tele.InlineButton{
			btn("📄 "+f.Name, "visualizar:"+category+"/"+f.Name),
		})
	}
	rows = append(rows, []tele.InlineButton{btn("🔙 Voltar para Categorias", "categorias")})
	return inlineRows(rows...)
}

// savedKeyboard follows up a successful save.
func savedKeyboard(category, name string) *tele.ReplyMarkup {
	return inlineRows(
		[]tele.InlineButton{btn("👁️ Visualizar Arquivo", "visualizar:"+category+"/"+name)},
		[]tele.InlineButton{btn("📂 Ver Categoria", "voltar_categoria:"+category)},
		[]tele.InlineButton{btn("🔍 Menu Principal", "voltar_menu")},
	)
}

// viewKeyboard is attached to a file sent for viewing.
func viewKeyboard(category, name string) *tele.ReplyMarkup {
	return inlineRows(
		[]tele.InlineButton{btn("📤 Compartilhar", "compartilhar:"+category+"/"+name)},
		[]tele.InlineButton{btn("🗑️ Excluir", "excluir_"+category+"|"+name)},
		[]tele.InlineButton{btn("🔙 Voltar", "voltar_categoria:"+category)},
	)
}

// noteTitleKeyboard asks whether a detected text note gets a custom title.
func noteTitleKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]tele.InlineButton{btn("Salvar com título padrão", "salvar_nota_padrao")},
		[]tele.InlineButton{btn("Escolher título", "escolher_titulo_nota")},
		[]tele.InlineButton{btn("Ignorar", "ignorar_texto")},
	)
}

// dashboardKeyboard offers the chart visualizations.
func dashboardKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]tele.InlineButton{
			btn("📊 Gráfico de Barras", "dashboard_bar"),
			btn("🍩 Gráfico de Pizza", "dashboard_pie"),
		},
		[]tele.InlineButton{
			btn("📈 Crescimento", "dashboard_growth"),
			btn("🔄 Atualizar Stats", "dashboard"),
		},
		[]tele.InlineButton{btn("🔙 Voltar ao Menu", "voltar_menu")},
	)
}
