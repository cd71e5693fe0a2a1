package i18n

import "strings"

// Default language is Italian; English is the only alternative.
const defaultLang = "it"

var translations = map[string]map[string]string{
	"it": {
		"app_title":            "Hotel Miramare - Gestione Arredamento",
		"products":             "Prodotti",
		"add_product":          "Aggiungi Prodotto",
		"edit_product":         "Modifica Prodotto",
		"delete_product":       "Elimina Prodotto",
		"report":               "Report",
		"name":                 "Nome",
		"category":             "Categoria",
		"supplier":             "Fornitore",
		"price":                "Prezzo",
		"currency":             "Valuta",
		"dimensions":           "Dimensioni",
		"weight":               "Peso",
		"weight_unit":          "Unità di peso",
		"color":                "Colore",
		"material":             "Materiale",
		"description":          "Descrizione",
		"notes":                "Note",
		"status":               "Stato",
		"images":               "Immagini",
		"videos":               "Video",
		"attachments":          "Allegati",
		"save":                 "Salva",
		"cancel":               "Annulla",
		"created":              "Creato",
		"updated":              "Aggiornato",
		"product_added":        "Prodotto aggiunto con successo!",
		"product_updated":      "Prodotto aggiornato con successo!",
		"product_deleted":      "Prodotto eliminato con successo!",
		"product_not_found":    "Prodotto non trovato!",
		"submission_rejected":  "Invio non valido, correggere i campi evidenziati.",
		"required":             "Obbligatorio",
		"not_a_number":         "Non è un numero",
		"must_not_be_negative": "Non può essere negativo",
		"no_products":          "Nessun prodotto in catalogo.",
	},
	"en": {
		"app_title":            "Hotel Miramare - Furnishing Management",
		"products":             "Products",
		"add_product":          "Add Product",
		"edit_product":         "Edit Product",
		"delete_product":       "Delete Product",
		"report":               "Report",
		"name":                 "Name",
		"category":             "Category",
		"supplier":             "Supplier",
		"price":                "Price",
		"currency":             "Currency",
		"dimensions":           "Dimensions",
		"weight":               "Weight",
		"weight_unit":          "Weight unit",
		"color":                "Color",
		"material":             "Material",
		"description":          "Description",
		"notes":                "Notes",
		"status":               "Status",
		"images":               "Images",
		"videos":               "Videos",
		"attachments":          "Attachments",
		"save":                 "Save",
		"cancel":               "Cancel",
		"created":              "Created",
		"updated":              "Updated",
		"product_added":        "Product added successfully!",
		"product_updated":      "Product updated successfully!",
		"product_deleted":      "Product deleted successfully!",
		"product_not_found":    "Product not found!",
		"submission_rejected":  "Invalid submission, fix the highlighted fields.",
		"required":             "Required",
		"not_a_number":         "Not a number",
		"must_not_be_negative": "Must not be negative",
		"no_products":          "No products in the catalog.",
	},
}

// T translates a message code. Unknown languages fall back to Italian;
// unknown codes fall back to the code itself so templates never break.
func T(lang, code string) string {
	m, ok := translations[lang]
	if !ok {
		m = translations[defaultLang]
	}
	if msg, ok := m[code]; ok {
		return msg
	}
	if msg, ok := translations[defaultLang][code]; ok {
		return msg
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if tag == "" {
			continue
		}
		base := strings.SplitN(tag, "-", 2)[0]
		if _, ok := translations[base]; ok {
			return base
		}
	}
	return defaultLang
}
