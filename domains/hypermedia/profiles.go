package hypermedia

import "github.com/mattjoyce/glossa/internal/schema"

// profiles covers all three word orders: English and Spanish are SVO,
// Japanese and Turkish are SOV with postposed particles, Arabic and
// Irish are VSO.
func profiles() []schema.Profile {
	return []schema.Profile{
		{
			Code:  "en",
			Name:  "English",
			Order: schema.SVO,
			Actions: map[string]schema.Term{
				"toggle":   {Native: "toggle", Aliases: []string{"switch", "flip"}},
				"show":     {Native: "show", Aliases: []string{"reveal"}},
				"hide":     {Native: "hide"},
				"add":      {Native: "add", Aliases: []string{"append"}},
				"remove":   {Native: "remove", Aliases: []string{"delete"}},
				"set":      {Native: "set"},
				"wait":     {Native: "wait"},
				"navigate": {Native: "navigate", Aliases: []string{"go"}},
				"resize":   {Native: "resize"},
			},
		},
		{
			Code:  "es",
			Name:  "Español",
			Order: schema.SVO,
			Actions: map[string]schema.Term{
				"toggle":   {Native: "alternar", Aliases: []string{"cambiar"}},
				"show":     {Native: "mostrar"},
				"hide":     {Native: "ocultar"},
				"add":      {Native: "añadir", Aliases: []string{"agregar"}},
				"remove":   {Native: "quitar", Aliases: []string{"eliminar"}},
				"set":      {Native: "poner"},
				"wait":     {Native: "esperar"},
				"navigate": {Native: "navegar", Aliases: []string{"ir"}},
				"resize":   {Native: "redimensionar"},
			},
		},
		{
			Code:            "ja",
			Name:            "日本語",
			Order:           schema.SOV,
			MarkerPlacement: "after",
			Actions: map[string]schema.Term{
				"toggle":   {Native: "切り替え", Aliases: []string{"トグル"}},
				"show":     {Native: "表示"},
				"hide":     {Native: "非表示"},
				"add":      {Native: "追加"},
				"remove":   {Native: "削除"},
				"set":      {Native: "設定"},
				"wait":     {Native: "待機"},
				"navigate": {Native: "移動"},
				"resize":   {Native: "サイズ変更"},
			},
		},
		{
			Code:            "tr",
			Name:            "Türkçe",
			Order:           schema.SOV,
			MarkerPlacement: "after",
			Actions: map[string]schema.Term{
				"toggle":   {Native: "değiştir"},
				"show":     {Native: "göster"},
				"hide":     {Native: "gizle"},
				"add":      {Native: "ekle"},
				"remove":   {Native: "kaldır", Aliases: []string{"sil"}},
				"set":      {Native: "ayarla"},
				"wait":     {Native: "bekle"},
				"navigate": {Native: "git"},
				"resize":   {Native: "boyutlandır"},
			},
		},
		{
			Code:      "ar",
			Name:      "العربية",
			Order:     schema.VSO,
			Direction: "rtl",
			Actions: map[string]schema.Term{
				"toggle":   {Native: "بدّل"},
				"show":     {Native: "أظهر"},
				"hide":     {Native: "أخف"},
				"add":      {Native: "أضف"},
				"remove":   {Native: "أزل"},
				"set":      {Native: "اضبط"},
				"wait":     {Native: "انتظر"},
				"navigate": {Native: "انتقل"},
				"resize":   {Native: "حجّم"},
			},
		},
		{
			Code:  "ga",
			Name:  "Gaeilge",
			Order: schema.VSO,
			Actions: map[string]schema.Term{
				"toggle":   {Native: "scoránaigh"},
				"show":     {Native: "taispeáin"},
				"hide":     {Native: "folaigh"},
				"add":      {Native: "cuir"},
				"remove":   {Native: "bain"},
				"set":      {Native: "socraigh"},
				"wait":     {Native: "fan"},
				"navigate": {Native: "téigh"},
				"resize":   {Native: "athmhéadaigh"},
			},
		},
	}
}
