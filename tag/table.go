package tag

// traits are the sanitization relevant properties of a tag.
type traits uint8

const (
	void traits = 1 << iota // content model is empty, never has an end tag
	opaque                   // content is a raw payload and is removed as a whole
	escapeWorthy             // text content must be dropped, escaping is not enough
	frame
	metadata
)

type entry struct {
	name   string
	traits traits
}

// table is indexed by ordinal and is the source for both lookup directions.
var table = [...]entry{
	Html:          {"html", 0},
	Head:          {"head", 0},
	Title:         {"title", escapeWorthy},
	Base:          {"base", void},
	Link:          {"link", void},
	Meta:          {"meta", void | metadata},
	Style:         {"style", opaque | escapeWorthy},
	Script:        {"script", opaque | escapeWorthy},
	Noscript:      {"noscript", escapeWorthy},
	Template:      {"template", 0},
	Body:          {"body", 0},
	Article:       {"article", 0},
	Section:       {"section", 0},
	Nav:           {"nav", 0},
	Aside:         {"aside", 0},
	H1:            {"h1", 0},
	H2:            {"h2", 0},
	H3:            {"h3", 0},
	H4:            {"h4", 0},
	H5:            {"h5", 0},
	H6:            {"h6", 0},
	Hgroup:        {"hgroup", 0},
	Header:        {"header", 0},
	Footer:        {"footer", 0},
	Address:       {"address", 0},
	P:             {"p", 0},
	Hr:            {"hr", void},
	Pre:           {"pre", 0},
	Blockquote:    {"blockquote", 0},
	Ol:            {"ol", 0},
	Ul:            {"ul", 0},
	Li:            {"li", 0},
	Dl:            {"dl", 0},
	Dt:            {"dt", 0},
	Dd:            {"dd", 0},
	Figure:        {"figure", 0},
	Figcaption:    {"figcaption", 0},
	Main:          {"main", 0},
	Div:           {"div", 0},
	A:             {"a", 0},
	Em:            {"em", 0},
	Strong:        {"strong", 0},
	Small:         {"small", 0},
	S:             {"s", 0},
	Cite:          {"cite", 0},
	Q:             {"q", 0},
	Dfn:           {"dfn", 0},
	Abbr:          {"abbr", 0},
	Data:          {"data", 0},
	Time:          {"time", 0},
	Code:          {"code", 0},
	Var:           {"var", 0},
	Samp:          {"samp", 0},
	Kbd:           {"kbd", 0},
	Sub:           {"sub", 0},
	Sup:           {"sup", 0},
	I:             {"i", 0},
	B:             {"b", 0},
	U:             {"u", 0},
	Mark:          {"mark", 0},
	Ruby:          {"ruby", 0},
	Rt:            {"rt", 0},
	Rp:            {"rp", 0},
	Bdi:           {"bdi", 0},
	Bdo:           {"bdo", 0},
	Span:          {"span", 0},
	Br:            {"br", void},
	Wbr:           {"wbr", void},
	Ins:           {"ins", 0},
	Del:           {"del", 0},
	Image:         {"image", 0},
	Img:           {"img", void},
	Iframe:        {"iframe", escapeWorthy | frame},
	Embed:         {"embed", void},
	Object:        {"object", 0},
	Param:         {"param", void},
	Video:         {"video", 0},
	Audio:         {"audio", 0},
	Source:        {"source", void},
	Track:         {"track", void},
	Canvas:        {"canvas", 0},
	Map:           {"map", 0},
	Area:          {"area", void},
	Math:          {"math", opaque | escapeWorthy},
	Mi:            {"mi", 0},
	Mo:            {"mo", 0},
	Mn:            {"mn", 0},
	Ms:            {"ms", 0},
	Mtext:         {"mtext", 0},
	Mglyph:        {"mglyph", 0},
	Malignmark:    {"malignmark", 0},
	Annotation:    {"annotation", 0},
	Svg:           {"svg", opaque | escapeWorthy},
	ForeignObject: {"foreignobject", 0},
	Desc:          {"desc", 0},
	Table:         {"table", 0},
	Caption:       {"caption", 0},
	Colgroup:      {"colgroup", 0},
	Col:           {"col", void},
	Tbody:         {"tbody", 0},
	Thead:         {"thead", 0},
	Tfoot:         {"tfoot", 0},
	Tr:            {"tr", 0},
	Td:            {"td", 0},
	Th:            {"th", 0},
	Form:          {"form", 0},
	Fieldset:      {"fieldset", 0},
	Legend:        {"legend", 0},
	Label:         {"label", 0},
	Input:         {"input", void},
	Button:        {"button", 0},
	Select:        {"select", 0},
	Datalist:      {"datalist", 0},
	Optgroup:      {"optgroup", 0},
	Option:        {"option", 0},
	Textarea:      {"textarea", escapeWorthy},
	Keygen:        {"keygen", void},
	Output:        {"output", 0},
	Progress:      {"progress", 0},
	Meter:         {"meter", 0},
	Details:       {"details", 0},
	Summary:       {"summary", 0},
	Menu:          {"menu", 0},
	Menuitem:      {"menuitem", void},
	Applet:        {"applet", 0},
	Acronym:       {"acronym", 0},
	Bgsound:       {"bgsound", void},
	Dir:           {"dir", 0},
	Frame:         {"frame", void},
	Frameset:      {"frameset", 0},
	Noframes:      {"noframes", escapeWorthy},
	Listing:       {"listing", 0},
	Xmp:           {"xmp", escapeWorthy},
	Nextid:        {"nextid", 0},
	Noembed:       {"noembed", escapeWorthy},
	Plaintext:     {"plaintext", escapeWorthy},
	Rb:            {"rb", 0},
	Strike:        {"strike", 0},
	Basefont:      {"basefont", void},
	Big:           {"big", 0},
	Blink:         {"blink", 0},
	Center:        {"center", 0},
	Font:          {"font", 0},
	Marquee:       {"marquee", 0},
	Multicol:      {"multicol", 0},
	Nobr:          {"nobr", 0},
	Spacer:        {"spacer", 0},
	Tt:            {"tt", 0},
	Rtc:           {"rtc", 0},
	Dialog:        {"dialog", 0},
	Unknown:       {"unknown", 0},
}
