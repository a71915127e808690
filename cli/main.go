package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	receiptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu     list.Model
	menuList     list.Model
	orderTable   table.Model
	historyTable table.Model
	billInput    textinput.Model
	spinner      spinner.Model
	client       *ApiClient
	order        *Order
	receipt      string
	customer     string
	saved        bool
	loading      bool
	currentView  string
	status       string
	error        string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// dishItem is a menu entry in the dish picker
type dishItem struct {
	category string
	name     string
	price    int
}

func (d dishItem) Title() string       { return d.name }
func (d dishItem) Description() string { return fmt.Sprintf("%s · Rs.%d", d.category, d.price) }
func (d dishItem) FilterValue() string { return d.name }

// Initialize the model
func initialModel() Model {
	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Initialize main menu items
	items := []list.Item{
		item{title: "Take Order", desc: "Pick dishes from the menu"},
		item{title: "Current Order", desc: "Review, remove or clear dishes"},
		item{title: "Generate Bill", desc: "Apply discount and tip, then print"},
		item{title: "New Order", desc: "Start the next order number"},
		item{title: "Order History", desc: "Browse saved orders"},
		item{title: "Exit", desc: "Exit the application"},
	}

	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Pak Cuisine Till"

	menuList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	menuList.Title = "Menu"

	orderTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 22},
			{Title: "Item", Width: 28},
			{Title: "Qty", Width: 5},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	historyTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Order", Width: 7},
			{Title: "Date", Width: 22},
			{Title: "Customer", Width: 16},
			{Title: "Items", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ti := textinput.New()
	ti.Placeholder = "discount %, tip, customer name"
	ti.CharLimit = 80
	ti.Width = 40

	return Model{
		mainMenu:     mainMenu,
		menuList:     menuList,
		orderTable:   orderTable,
		historyTable: historyTable,
		billInput:    ti,
		spinner:      s,
		client:       NewApiClient(),
		currentView:  "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen, fetchOrder(m.client))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.menuList.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == "bill" {
			return m.updateBill(msg)
		}

		switch msg.String() {
		case "q":
			if m.currentView == "main" {
				return m, tea.Quit
			}
		case "esc":
			if m.currentView != "main" {
				m.currentView = "main"
				m.error = ""
				return m, nil
			}
		case "enter":
			switch m.currentView {
			case "main":
				return m.selectMain()
			case "menu":
				if d, ok := m.menuList.SelectedItem().(dishItem); ok {
					m.loading = true
					return m, addItem(m.client, d.category, d.name)
				}
			}
		case "x":
			if m.currentView == "order" && m.order != nil {
				if row := m.orderTable.Cursor(); row >= 0 && row < len(m.order.Lines) {
					ln := m.order.Lines[row]
					return m, removeItem(m.client, ln.Category, ln.Item)
				}
			}
		case "c":
			if m.currentView == "order" {
				return m, clearOrder(m.client)
			}
		case "n":
			if m.currentView == "order" || m.currentView == "receipt" {
				m.currentView = "order"
				return m, newOrder(m.client)
			}
		case "s":
			if m.currentView == "receipt" {
				return m, saveOrder(m.client, m.receipt, m.customer)
			}
		}

	case menuMsg:
		m.menuList.SetItems(convertMenuToItems(msg.menu))
		return m, nil
	case orderMsg:
		m.loading = false
		m.order = msg.order
		m.orderTable.SetRows(convertLinesToRows(msg.order.Lines))
		m.status = msg.order.Summary
		return m, nil
	case receiptMsg:
		m.receipt = msg.receipt.Text
		m.saved = false
		m.currentView = "receipt"
		m.error = ""
		return m, nil
	case historyMsg:
		m.historyTable.SetRows(convertHistoryToRows(msg.entries))
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.error = ""
		m.saved = true
		m.status = msg.message
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "menu":
		m.menuList, cmd = m.menuList.Update(msg)
	case "order":
		m.orderTable, cmd = m.orderTable.Update(msg)
	case "history":
		m.historyTable, cmd = m.historyTable.Update(msg)
	}

	return m, cmd
}

func (m Model) selectMain() (tea.Model, tea.Cmd) {
	selected, ok := m.mainMenu.SelectedItem().(item)
	if !ok {
		return m, nil
	}

	m.error = ""
	switch selected.title {
	case "Exit":
		return m, tea.Quit
	case "Take Order":
		m.currentView = "menu"
		return m, fetchMenu(m.client)
	case "Current Order":
		m.currentView = "order"
		return m, fetchOrder(m.client)
	case "Generate Bill":
		m.currentView = "bill"
		m.billInput.SetValue("")
		m.billInput.Focus()
		return m, textinput.Blink
	case "New Order":
		m.currentView = "order"
		return m, newOrder(m.client)
	case "Order History":
		m.currentView = "history"
		return m, fetchHistory(m.client)
	}
	return m, nil
}

func (m Model) updateBill(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.billInput.Blur()
		m.currentView = "main"
		m.error = ""
		return m, nil
	case "enter":
		discount, tip, customer, err := parseBillInput(m.billInput.Value())
		if err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.billInput.Blur()
		m.customer = customer
		return m, generateReceipt(m.client, discount, tip, customer)
	}

	var cmd tea.Cmd
	m.billInput, cmd = m.billInput.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	footer := ""
	if m.status != "" {
		footer += "\n" + infoStyle.Render(m.status) + "\n"
	}
	if m.error != "" {
		footer += "\n" + errorStyle.Render(m.error) + "\n"
	}

	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View() + footer)
	case "menu":
		busy := ""
		if m.loading {
			busy = m.spinner.View() + " adding..."
		}
		return docStyle.Render(m.menuList.View() + "\n" + busy + footer)
	case "order":
		title := "Current Order"
		if m.order != nil {
			title = fmt.Sprintf("Order #%04d", m.order.OrderNumber)
		}
		help := "\nPress 'x' to remove the selected dish, 'c' to clear, 'n' for a new order, 'esc' to go back\n"
		view := titleStyle.Render(title) + "\n\n" + m.orderTable.View() + "\n"
		if m.order != nil {
			view += fmt.Sprintf("\nSubtotal: Rs.%.2f\n", m.order.Subtotal)
		}
		return docStyle.Render(view + help + footer)
	case "bill":
		help := "\nEnter '<discount>,<tip>,<customer>'. Any field may be left blank.\nPress 'enter' to print, 'esc' to cancel\n"
		return docStyle.Render(titleStyle.Render("Generate Bill") + "\n\n" + m.billInput.View() + help + footer)
	case "receipt":
		help := "\nPress 's' to save the order, 'n' for a new order, 'esc' to go back\n"
		if m.saved {
			help = "\n" + successStyle.Render("Saved") + help
		}
		return docStyle.Render(receiptStyle.Render(m.receipt) + help + footer)
	case "history":
		help := "\nPress 'esc' to go back\n"
		return docStyle.Render(titleStyle.Render("Order History") + "\n\n" + m.historyTable.View() + help + footer)
	default:
		return "Loading..."
	}
}

// Custom message types for the tea.Model
type menuMsg struct {
	menu []Category
}

type orderMsg struct {
	order *Order
}

type receiptMsg struct {
	receipt *Receipt
}

type historyMsg struct {
	entries []HistoryEntry
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func fetchMenu(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		menu, err := client.GetMenu()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching menu: %v", err)}
		}
		return menuMsg{menu: menu}
	}
}

func fetchOrder(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		order, err := client.GetOrder()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching order: %v", err)}
		}
		return orderMsg{order: order}
	}
}

func addItem(client *ApiClient, category, name string) tea.Cmd {
	return func() tea.Msg {
		order, err := client.AddItem(category, name, 1)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error adding item: %v", err)}
		}
		return orderMsg{order: order}
	}
}

func removeItem(client *ApiClient, category, name string) tea.Cmd {
	return func() tea.Msg {
		order, err := client.RemoveItem(category, name)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error removing item: %v", err)}
		}
		return orderMsg{order: order}
	}
}

func clearOrder(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		order, err := client.ClearOrder()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error clearing order: %v", err)}
		}
		return orderMsg{order: order}
	}
}

func newOrder(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		order, err := client.NewOrder()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error starting new order: %v", err)}
		}
		return orderMsg{order: order}
	}
}

func generateReceipt(client *ApiClient, discount int, tip float64, customer string) tea.Cmd {
	return func() tea.Msg {
		r, err := client.GenerateReceipt(discount, tip, customer)
		if err != nil {
			return errorMsg{err: err.Error()}
		}
		return receiptMsg{receipt: r}
	}
}

func saveOrder(client *ApiClient, bill, customer string) tea.Cmd {
	return func() tea.Msg {
		if err := client.SaveOrder(bill, customer); err != nil {
			return errorMsg{err: fmt.Sprintf("Error saving order: %v", err)}
		}
		return confirmMsg{message: "Order saved successfully"}
	}
}

func fetchHistory(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.GetHistory()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching history: %v", err)}
		}
		return historyMsg{entries: entries}
	}
}

// parseBillInput reads "discount,tip,customer"; blank fields default to zero
func parseBillInput(input string) (int, float64, string, error) {
	parts := strings.SplitN(input, ",", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	discount := 0
	if s := strings.TrimSpace(parts[0]); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 || d > 100 {
			return 0, 0, "", fmt.Errorf("discount must be a whole number between 0 and 100")
		}
		discount = d
	}

	tip := 0.0
	if s := strings.TrimSpace(parts[1]); s != "" {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return 0, 0, "", fmt.Errorf("tip must be a non-negative amount")
		}
		tip = t
	}

	return discount, tip, strings.TrimSpace(parts[2]), nil
}

func convertMenuToItems(menu []Category) []list.Item {
	var items []list.Item
	for _, cat := range menu {
		for _, dish := range cat.Items {
			items = append(items, dishItem{category: cat.Name, name: dish.Name, price: dish.Price})
		}
	}
	return items
}

func convertLinesToRows(lines []Line) []table.Row {
	rows := make([]table.Row, len(lines))
	for i, ln := range lines {
		rows[i] = table.Row{ln.Category, ln.Item, strconv.Itoa(ln.Quantity)}
	}
	return rows
}

func convertHistoryToRows(entries []HistoryEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		keys := make([]string, 0, len(e.Items))
		for k := range e.Items {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for j, k := range keys {
			_, name, _ := strings.Cut(k, ":")
			parts[j] = fmt.Sprintf("%s x%d", name, e.Items[k])
		}

		date := e.Date
		if len(date) > 19 {
			date = strings.Replace(date[:19], "T", " ", 1)
		}
		rows[i] = table.Row{fmt.Sprintf("#%04d", e.OrderNumber), date, e.CustomerName, strings.Join(parts, ", ")}
	}
	return rows
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
